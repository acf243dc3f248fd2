package hadith

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hadithhub/internal/corpus"
	"hadithhub/internal/edition"
	"hadithhub/internal/emergency"
	"hadithhub/internal/fetcher"
	"hadithhub/internal/normalize"
	hub "hadithhub/internal/sync"
	"hadithhub/pkg/models"
)

// OfflineNotice is shown when the working set is the built-in dataset.
const OfflineNotice = "The hadith provider could not be reached; showing a small offline selection."

// LoadResult summarizes a finished load.
type LoadResult struct {
	LoadID       string           `json:"load_id"`
	CollectionID string           `json:"collection_id"`
	Editions     []string         `json:"editions"`
	Requested    edition.Language `json:"requested"`
	Language     edition.Language `json:"language"`
	Count        int              `json:"count"`
	Dropped      int              `json:"dropped"`
	Notice       string           `json:"notice,omitempty"`
	Fallback     bool             `json:"fallback"`
	Generation   uint64           `json:"generation"`
}

// source is one fetched edition ready to be normalized.
type source struct {
	meta      models.CollectionMeta
	editionID string
	raw       []models.RawEntry
}

// Load replaces the working set with collection in language. collection may
// be an id, a citation code, a display name close enough to match, or "all"
// for the curated view. Fetch failures never fail the load: the set degrades
// to the default-language edition, then to the built-in dataset.
func (s *Session) Load(ctx context.Context, collection, language string) (LoadResult, error) {
	if strings.TrimSpace(language) == "" {
		language = string(s.engine.Config.Language)
	}
	lang, ok := edition.ParseLanguage(language)
	if !ok {
		return LoadResult{}, fmt.Errorf("language %q: %w", language, edition.ErrUnknownLanguage)
	}

	var cols []edition.Collection
	collectionID := strings.ToLower(strings.TrimSpace(collection))
	if collectionID == edition.AllCollectionsID {
		cols = s.engine.Catalog.Curated()
	} else {
		col, err := s.engine.Catalog.Lookup(collection)
		if err != nil {
			return LoadResult{}, fmt.Errorf("load %q: %w", collection, err)
		}
		cols = []edition.Collection{col}
		collectionID = col.ID
	}

	ctx = s.beginLoad(ctx)
	s.debounce.Stop()
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()

	res := LoadResult{
		LoadID:       uuid.NewString(),
		CollectionID: collectionID,
		Requested:    lang,
		Language:     lang,
	}
	sources, notices := s.fetchAll(ctx, cols, lang, &res)
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if collectionID == edition.AllCollectionsID {
		for i := range sources {
			if len(sources[i].raw) > s.engine.Config.CuratedCap {
				sources[i].raw = sources[i].raw[:s.engine.Config.CuratedCap]
			}
		}
	}

	total := 0
	for _, src := range sources {
		total += len(src.raw)
	}
	if total == 0 {
		return s.loadEmergency(res, notices), nil
	}

	res.Notice = strings.Join(notices, " ")
	s.setNotice(res.Notice, false)
	if err := s.publish(ctx, sources, &res); err != nil {
		if errors.Is(err, corpus.ErrStaleGeneration) || ctx.Err() != nil {
			return res, fmt.Errorf("load %s superseded: %w", res.LoadID, err)
		}
		return res, err
	}

	s.engine.broadcast(hub.LoadEvent{
		Type:         hub.EventLoaded,
		SessionID:    s.ID,
		LoadID:       res.LoadID,
		CollectionID: res.CollectionID,
		EditionID:    strings.Join(res.Editions, ","),
		Total:        res.Count,
		Dropped:      res.Dropped,
		Notice:       res.Notice,
		At:           time.Now(),
	})
	s.engine.log.Info("corpus loaded",
		"session", s.ID, "collection", res.CollectionID, "editions", res.Editions,
		"count", res.Count, "dropped", res.Dropped, "degraded", res.Language != res.Requested)
	return res, nil
}

// beginLoad cancels any earlier load of this session.
func (s *Session) beginLoad(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	s.loadMu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
	}
	s.loadCancel = cancel
	s.loadMu.Unlock()
	return ctx
}

// fetchAll fetches the resolved edition of every collection concurrently,
// retrying failures once with the default language. Collections that stay
// unavailable are skipped and noted.
func (s *Session) fetchAll(ctx context.Context, cols []edition.Collection, lang edition.Language, res *LoadResult) ([]source, []string) {
	var notices []string
	resolutions := make([]edition.Resolution, 0, len(cols))
	for _, col := range cols {
		r, err := s.engine.Resolver.Resolve(col.ID, lang)
		if err != nil {
			s.engine.log.Warn("no edition for collection", "collection", col.ID, "language", lang, "err", err)
			notices = append(notices, err.Error()+".")
			resolutions = append(resolutions, edition.Resolution{CollectionID: col.ID})
			continue
		}
		if r.Degraded {
			s.engine.log.Info("language fallback", "collection", col.ID, "requested", lang, "served", r.Language)
			notices = append(notices, r.Notice()+".")
			res.Language = r.Language
		}
		resolutions = append(resolutions, r)
	}

	ids := make([]string, 0, len(resolutions))
	for _, r := range resolutions {
		if r.EditionID != "" {
			ids = append(ids, r.EditionID)
		}
	}
	fetched := make(map[string]fetcher.PrefetchResult, len(ids))
	for _, pr := range fetcher.Prefetch(ctx, s.engine.Fetcher, ids, s.engine.Config.FetchParallel) {
		fetched[pr.EditionID] = pr
	}

	// second round: default-language editions for what failed
	var retry []string
	for i, r := range resolutions {
		if r.EditionID == "" || fetched[r.EditionID].Err == nil || r.Language == edition.DefaultLanguage {
			continue
		}
		s.engine.log.Warn("edition fetch failed", "edition", r.EditionID, "err", fetched[r.EditionID].Err)
		if id, ok := s.engine.Resolver.Lookup(r.CollectionID, edition.DefaultLanguage); ok {
			resolutions[i].EditionID = id
			resolutions[i].Language = edition.DefaultLanguage
			resolutions[i].Degraded = true
			retry = append(retry, id)
			notices = append(notices, resolutions[i].Notice()+".")
			res.Language = edition.DefaultLanguage
		}
	}
	for _, pr := range fetcher.Prefetch(ctx, s.engine.Fetcher, retry, s.engine.Config.FetchParallel) {
		fetched[pr.EditionID] = pr
	}

	sources := make([]source, 0, len(cols))
	for i, r := range resolutions {
		if r.EditionID == "" {
			continue
		}
		pr := fetched[r.EditionID]
		if pr.Err != nil {
			s.engine.log.Warn("edition unavailable", "edition", r.EditionID, "err", pr.Err)
			notices = append(notices, fmt.Sprintf("%s could not be loaded.", cols[i].Name))
			continue
		}
		res.Editions = append(res.Editions, r.EditionID)
		sources = append(sources, source{meta: cols[i].Meta(), editionID: r.EditionID, raw: pr.Entries})
	}
	return sources, notices
}

// publish normalizes sources in order, batch by batch, into a fresh working
// set. Every batch is deduped against everything before it.
func (s *Session) publish(ctx context.Context, sources []source, res *LoadResult) error {
	dedupe := corpus.NewDeduper()
	var gen uint64
	started := false
	batchNo := 0

	for _, src := range sources {
		start := s.ids.Reserve(len(src.raw))
		err := s.engine.Normalizer.Each(ctx, src.raw, src.meta, start, func(b normalize.Batch) error {
			kept := dedupe.Filter(b.Entries)
			if !started {
				gen = s.store.BeginLoad(res.CollectionID, kept)
				started = true
			} else if err := s.store.Append(gen, kept); err != nil {
				return err
			}
			s.refresh()
			batchNo++
			res.Count += len(kept)
			s.engine.broadcast(hub.LoadEvent{
				Type:         hub.EventBatch,
				SessionID:    s.ID,
				LoadID:       res.LoadID,
				CollectionID: res.CollectionID,
				EditionID:    src.editionID,
				Batch:        batchNo,
				Size:         len(kept),
				Total:        res.Count,
				At:           time.Now(),
			})
			return nil
		})
		if err != nil {
			return err
		}
	}

	res.Dropped = dedupe.Dropped
	if dedupe.Dropped > 0 {
		s.engine.log.Debug("duplicates dropped", "session", s.ID, "collection", res.CollectionID, "dropped", dedupe.Dropped)
	}
	if err := s.store.FinishLoad(gen); err != nil {
		return err
	}
	res.Generation = gen
	s.refresh()
	return nil
}

func (s *Session) loadEmergency(res LoadResult, notices []string) LoadResult {
	entries := emergency.Entries(s.ids.Reserve(emergency.Len()))
	res.CollectionID = emergency.CollectionID
	res.Count = len(entries)
	res.Fallback = true
	res.Notice = strings.TrimSpace(strings.Join(append(notices, OfflineNotice), " "))
	res.Generation = s.store.Replace(emergency.CollectionID, entries)
	s.setNotice(res.Notice, true)
	s.refresh()

	s.engine.log.Warn("serving emergency dataset", "session", s.ID, "requested", res.Requested, "count", res.Count)
	s.engine.broadcast(hub.LoadEvent{
		Type:         hub.EventLoaded,
		SessionID:    s.ID,
		LoadID:       res.LoadID,
		CollectionID: res.CollectionID,
		Total:        res.Count,
		Notice:       res.Notice,
		Fallback:     true,
		At:           time.Now(),
	})
	return res
}

func (s *Session) setNotice(notice string, fallback bool) {
	s.mu.Lock()
	s.notice = notice
	s.fallback = fallback
	s.mu.Unlock()
}
