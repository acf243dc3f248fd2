// Package app builds the shared runtime (logger, edition cache, fetcher,
// engine, event hub) from configuration for the binaries under cmd/.
package app

import (
	"database/sql"
	"fmt"

	"hadithhub/internal/edition"
	"hadithhub/internal/fetcher"
	"hadithhub/internal/hadith"
	"hadithhub/internal/platform/logger"
	hub "hadithhub/internal/sync"
	"hadithhub/pkg/database"
	"hadithhub/pkg/utils"
)

type App struct {
	Cfg     utils.Config
	Log     *logger.Logger
	DB      *sql.DB // nil when the edition cache is disabled
	Cache   *fetcher.Cache
	HTTP    *fetcher.HTTPFetcher
	Fetcher fetcher.Fetcher
	Hub     *hub.Hub
	Engine  *hadith.Engine
}

// New wires everything. Callers must Close the result.
func New(cfg utils.Config) (*App, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	lang, ok := edition.ParseLanguage(cfg.Engine.DefaultLanguage)
	if !ok {
		log.Sync()
		return nil, fmt.Errorf("engine.default_language %q: %w", cfg.Engine.DefaultLanguage, edition.ErrUnknownLanguage)
	}

	a := &App{Cfg: cfg, Log: log}
	a.HTTP = fetcher.NewHTTPFetcher(
		fetcher.WithBaseURL(cfg.Provider.BaseURL),
		fetcher.WithTimeout(cfg.Provider.Timeout),
		fetcher.WithLogger(log),
	)
	a.Fetcher = a.HTTP

	if cfg.Provider.Cache {
		if err := a.openCache(); err != nil {
			log.Sync()
			return nil, err
		}
		a.Fetcher = fetcher.NewCachedFetcher(a.HTTP, a.Cache, cfg.Provider.CacheTTL, log)
	}

	a.Hub = hub.NewHub(log)
	a.Engine = hadith.NewEngine(a.Fetcher, hadith.Config{
		Language:       lang,
		BatchSize:      cfg.Engine.BatchSize,
		InitialPage:    cfg.Engine.InitialPage,
		PageStep:       cfg.Engine.PageStep,
		SearchDebounce: cfg.Engine.SearchDebounce,
		CuratedCap:     cfg.Engine.CuratedCap,
		FetchParallel:  cfg.Engine.FetchParallel,
	}, a.Hub, log)
	return a, nil
}

// OpenCache opens the edition cache even when the fetcher does not use it,
// for tools that read or fill it directly.
func (a *App) OpenCache() (*fetcher.Cache, error) {
	if a.Cache == nil {
		if err := a.openCache(); err != nil {
			return nil, err
		}
	}
	return a.Cache, nil
}

func (a *App) openCache() error {
	dbCfg := database.DefaultConfig()
	if a.Cfg.Database.Path != "" {
		dbCfg.Path = a.Cfg.Database.Path
	}
	db, err := database.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("open cache db: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate cache db: %w", err)
	}
	a.DB = db
	a.Cache = fetcher.NewCache(db)
	a.Log.Debug("edition cache ready", "path", dbCfg.Path)
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
