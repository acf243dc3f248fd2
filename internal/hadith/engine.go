// Package hadith wires the corpus pipeline together: resolve an edition,
// fetch it, normalize and dedupe it into a session's working set, then serve
// search, sort and pagination over that set.
package hadith

import (
	"time"

	"hadithhub/internal/corpus"
	"hadithhub/internal/edition"
	"hadithhub/internal/fetcher"
	"hadithhub/internal/normalize"
	"hadithhub/internal/platform/logger"
	"hadithhub/internal/search"
)

// Config holds the tunables of the engine.
type Config struct {
	Language       edition.Language // used when a load names no language
	BatchSize      int
	InitialPage    int
	PageStep       int
	SearchDebounce time.Duration
	CuratedCap     int // raw entries kept per collection in the curated view
	FetchParallel  int
}

func DefaultConfig() Config {
	return Config{
		Language:       edition.DefaultLanguage,
		BatchSize:      normalize.DefaultBatchSize,
		InitialPage:    corpus.InitialPageSize,
		PageStep:       corpus.PageStep,
		SearchDebounce: search.DefaultDelay,
		CuratedCap:     50,
		FetchParallel:  4,
	}
}

// Broadcaster receives load progress events. *sync.Hub implements it.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// Engine holds what sessions share: the static tables, the fetcher and the
// normalizer. It is safe for concurrent use.
type Engine struct {
	Catalog    *edition.Catalog
	Resolver   *edition.Resolver
	Fetcher    fetcher.Fetcher
	Normalizer *normalize.Normalizer
	Events     Broadcaster
	Config     Config

	log *logger.Logger
}

func NewEngine(f fetcher.Fetcher, cfg Config, events Broadcaster, log *logger.Logger) *Engine {
	def := DefaultConfig()
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.InitialPage <= 0 {
		cfg.InitialPage = def.InitialPage
	}
	if cfg.PageStep <= 0 {
		cfg.PageStep = def.PageStep
	}
	if cfg.SearchDebounce < 0 {
		cfg.SearchDebounce = def.SearchDebounce
	}
	if cfg.CuratedCap <= 0 {
		cfg.CuratedCap = def.CuratedCap
	}
	if cfg.FetchParallel <= 0 {
		cfg.FetchParallel = def.FetchParallel
	}
	return &Engine{
		Catalog:    edition.NewCatalog(),
		Resolver:   edition.NewResolver(),
		Fetcher:    f,
		Normalizer: normalize.New(cfg.BatchSize),
		Events:     events,
		Config:     cfg,
		log:        logger.OrNop(log),
	}
}

func (e *Engine) broadcast(v any) {
	if e.Events != nil {
		e.Events.BroadcastJSON(v)
	}
}
