package hadith

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"hadithhub/internal/corpus"
	"hadithhub/internal/edition"
	"hadithhub/internal/search"
	"hadithhub/pkg/models"
)

// View is what a consumer renders: the visible window plus enough state to
// draw banners and a "load more" control.
type View struct {
	SessionID    string         `json:"session_id"`
	CollectionID string         `json:"collection_id"`
	Language     string         `json:"language"`
	Query        string         `json:"query"`
	Citation     bool           `json:"citation"`
	Sort         corpus.SortKey `json:"sort"`
	Entries      []models.Entry `json:"entries"`
	Cursor       corpus.Cursor  `json:"cursor"`
	Total        int            `json:"total"`
	Loading      bool           `json:"loading"`
	Notice       string         `json:"notice,omitempty"`
	Fallback     bool           `json:"fallback"`
	Generation   uint64         `json:"generation"`
}

// Session owns one working set and the search, sort and pagination state
// derived from it.
type Session struct {
	ID string

	engine   *Engine
	store    *corpus.Store
	ids      *corpus.IDSequence
	pager    *corpus.Pager
	debounce *search.Debouncer
	lookup   *search.Lookup

	loadMu     sync.Mutex
	loadCancel context.CancelFunc

	mu       sync.Mutex
	language edition.Language
	query    string
	citation bool
	sortKey  corpus.SortKey
	results  []models.Entry
	viewGen  uint64
	notice   string
	fallback bool
}

func newSession(id string, e *Engine) *Session {
	ids := &corpus.IDSequence{}
	return &Session{
		ID:       id,
		engine:   e,
		store:    corpus.NewStore(),
		ids:      ids,
		pager:    corpus.NewPager(e.Config.InitialPage, e.Config.PageStep),
		debounce: search.NewDebouncer(e.Config.SearchDebounce),
		lookup:   search.NewLookup(e.Catalog, e.Resolver, e.Fetcher, e.Normalizer, ids, e.log),
		language: edition.DefaultLanguage,
	}
}

// NewSession returns a session that is not tracked by any registry.
func (e *Engine) NewSession(id string) *Session {
	return newSession(id, e)
}

// Search runs q immediately, superseding any pending debounced query.
func (s *Session) Search(ctx context.Context, q string) View {
	sctx, gen := s.debounce.Preempt()
	ctx, stop := mergeCancel(ctx, sctx)
	defer stop()
	s.runQuery(ctx, gen, q)
	return s.Page()
}

// SubmitQuery schedules q after the debounce delay. Only the latest submitted
// query is applied; earlier ones are dropped even if they finish later.
func (s *Session) SubmitQuery(q string) uint64 {
	return s.debounce.Submit(func(ctx context.Context, gen uint64) {
		s.runQuery(ctx, gen, q)
	})
}

// QueryGeneration returns the generation of the latest search request.
func (s *Session) QueryGeneration() uint64 {
	return s.debounce.Generation()
}

func (s *Session) runQuery(ctx context.Context, gen uint64, q string) {
	q = strings.TrimSpace(q)
	snap := s.store.Current()

	var (
		results  []models.Entry
		citation bool
	)
	if c, ok := search.ParseCitation(q); ok {
		citation = true
		s.mu.Lock()
		lang := s.language
		s.mu.Unlock()
		found, err := s.lookup.Find(ctx, c, lang, snap)
		if err != nil {
			s.engine.log.Warn("citation lookup failed", "session", s.ID, "citation", c.String(), "err", err)
			found = []models.Entry{}
		}
		results = found
	}

	applied := s.debounce.Commit(gen, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a load may have replaced the working set while the query ran
		cur := s.store.Current()
		s.query = q
		s.citation = citation
		if citation {
			s.results = results
		} else {
			s.results = corpus.Sort(search.Filter(cur.Entries, q), s.sortKey)
		}
		s.viewGen = cur.Generation
		s.pager.Reset(len(s.results))
	})
	if !applied {
		s.engine.log.Debug("search superseded", "session", s.ID, "generation", gen)
	}
}

// SetSort changes the sort key and rebuilds the view.
func (s *Session) SetSort(key string) error {
	k, ok := corpus.ParseSortKey(key)
	if !ok {
		return fmt.Errorf("sort key %q: %w", key, ErrUnknownSortKey)
	}
	snap := s.store.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = k
	if s.citation {
		s.results = corpus.Sort(s.results, k)
	} else {
		s.results = corpus.Sort(search.Filter(snap.Entries, s.query), k)
		s.viewGen = snap.Generation
	}
	s.pager.Reset(len(s.results))
	return nil
}

// LoadMore reveals the next page step. ok is false when nothing was added,
// because the set is exhausted or another load-more was already running.
func (s *Session) LoadMore() (View, bool) {
	_, ok := s.pager.LoadMore(nil)
	return s.Page(), ok
}

// Page returns the current view.
func (s *Session) Page() View {
	snap := s.store.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.pager.Cursor()
	return View{
		SessionID:    s.ID,
		CollectionID: snap.CollectionID,
		Language:     string(s.language),
		Query:        s.query,
		Citation:     s.citation,
		Sort:         s.sortKey,
		Entries:      corpus.Window(s.results, cur),
		Cursor:       cur,
		Total:        len(s.results),
		Loading:      snap.Loading,
		Notice:       s.notice,
		Fallback:     s.fallback,
		Generation:   snap.Generation,
	}
}

// WorkingSet returns the full working set, unfiltered.
func (s *Session) WorkingSet() corpus.Snapshot {
	return s.store.Current()
}

// Results returns the whole filtered, sorted result set, ignoring paging.
func (s *Session) Results() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clip(s.results)
}

// Close stops pending searches and any running load.
func (s *Session) Close() {
	s.debounce.Stop()
	s.loadMu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
		s.loadCancel = nil
	}
	s.loadMu.Unlock()
}

// refresh rebuilds the view after the working set changed. A new generation
// resets the cursor; growth within one load only extends it.
func (s *Session) refresh() {
	snap := s.store.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.citation && snap.Generation == s.viewGen {
		return
	}
	if snap.Generation != s.viewGen {
		s.query = ""
		s.citation = false
	}
	s.results = corpus.Sort(search.Filter(snap.Entries, s.query), s.sortKey)
	if snap.Generation != s.viewGen {
		s.viewGen = snap.Generation
		s.pager.Reset(len(s.results))
		return
	}
	s.pager.Grow(len(s.results))
}

// mergeCancel returns a context that is done when either parent or other is.
func mergeCancel(parent, other context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(other, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
