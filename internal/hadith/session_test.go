package hadith

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hadithhub/internal/corpus"
	"hadithhub/internal/edition"
	"hadithhub/internal/emergency"
	"hadithhub/internal/fetcher"
	hub "hadithhub/internal/sync"
	"hadithhub/pkg/models"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	data  map[string][]models.RawEntry
}

func (p *fakeProvider) Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error) {
	p.mu.Lock()
	p.calls = append(p.calls, editionID)
	p.mu.Unlock()
	raw, ok := p.data[editionID]
	if !ok {
		return nil, &fetcher.FetchError{EditionID: editionID, Status: 404, Err: errors.New("not found")}
	}
	return raw, nil
}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

type recorder struct {
	mu     sync.Mutex
	events []hub.LoadEvent
}

func (r *recorder) BroadcastJSON(v any) {
	ev, ok := v.(hub.LoadEvent)
	if !ok {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) Events() []hub.LoadEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hub.LoadEvent(nil), r.events...)
}

var sayings = []string{
	"Narrated Abu Huraira: Give charity even if it is half a date, saying %d.",
	"Narrated Aisha: The Prophet would pray at night until his feet swelled, saying %d.",
	"Narrated Anas: The best of you are those best in manners and conduct, saying %d.",
	"Narrated Ibn Umar: Seek knowledge and teach it to the people, saying %d.",
	"Narrated Jabir: Every act of kindness towards a neighbour is a good deed, saying %d.",
}

func edition120(n int) []models.RawEntry {
	out := make([]models.RawEntry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.RawEntry{
			"hadithnumber": float64(i),
			"text":         fmt.Sprintf(sayings[i%len(sayings)], i),
			"arabic":       "حديث",
		})
	}
	return out
}

func newTestEngine(p fetcher.Fetcher, events Broadcaster) *Engine {
	cfg := DefaultConfig()
	cfg.SearchDebounce = 10 * time.Millisecond
	return NewEngine(p, cfg, events, nil)
}

func newProvider() *fakeProvider {
	return &fakeProvider{data: map[string][]models.RawEntry{
		"eng-bukhari": edition120(120),
		"eng-muslim":  edition120(10),
		"eng-qudsi":   edition120(5),
	}}
}

func TestSession_EndToEnd_FrenchBukhari(t *testing.T) {
	p := newProvider()
	s := newTestEngine(p, nil).NewSession("s1")

	res, err := s.Load(context.Background(), "bukhari", "french")
	require.NoError(t, err)
	assert.Equal(t, []string{"eng-bukhari"}, res.Editions)
	assert.Equal(t, edition.English, res.Language)
	assert.Equal(t, edition.French, res.Requested)
	assert.NotEmpty(t, res.Notice)
	assert.False(t, res.Fallback)
	assert.Equal(t, 120, res.Count)

	view := s.Page()
	assert.Equal(t, 120, view.Total)
	assert.Len(t, view.Entries, 50)
	assert.True(t, view.Cursor.HasMore)
	assert.NotEmpty(t, view.Notice)

	found := s.Search(context.Background(), "charity")
	require.NotZero(t, found.Total)
	for _, e := range found.Entries {
		ok := e.Theme == "Charity and Giving" || strings.Contains(strings.ToLower(e.PrimaryText), "charity")
		assert.True(t, ok, e.PrimaryText)
	}
	before := allResults(t, s)

	require.NoError(t, s.SetSort("length"))
	after := allResults(t, s)
	assert.ElementsMatch(t, idsOf(before), idsOf(after))
	for i := 1; i < len(after); i++ {
		assert.GreaterOrEqual(t, utf8.RuneCountInString(after[i-1].PrimaryText), utf8.RuneCountInString(after[i].PrimaryText))
	}
}

// allResults pages through the whole current result set.
func allResults(t *testing.T, s *Session) []models.Entry {
	t.Helper()
	view := s.Page()
	for view.Cursor.HasMore {
		var ok bool
		view, ok = s.LoadMore()
		require.True(t, ok)
	}
	return view.Entries
}

func idsOf(entries []models.Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestSession_FallbackToEmergencyDataset(t *testing.T) {
	p := &fakeProvider{}
	s := newTestEngine(p, nil).NewSession("s1")

	res, err := s.Load(context.Background(), "muslim", "urdu")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, emergency.CollectionID, res.CollectionID)
	assert.Equal(t, []string{"urd-muslim", "eng-muslim"}, p.Calls())

	set := s.WorkingSet().Entries
	want := emergency.Dataset()
	require.Len(t, set, len(want))
	for i := range want {
		assert.Equal(t, want[i].Reference, set[i].Reference)
		assert.Equal(t, want[i].PrimaryText, set[i].PrimaryText)
		assert.NotEmpty(t, set[i].PrimaryText)
	}
	assert.True(t, s.Page().Fallback)
}

func TestSession_EmptyEditionFallsBack(t *testing.T) {
	p := &fakeProvider{data: map[string][]models.RawEntry{"eng-nawawi": {}}}
	s := newTestEngine(p, nil).NewSession("s1")
	res, err := s.Load(context.Background(), "nawawi", "")
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, emergency.Len(), s.Page().Total)
}

func TestSession_FetchFailureRetriesDefaultLanguage(t *testing.T) {
	p := newProvider()
	s := newTestEngine(p, nil).NewSession("s1")
	res, err := s.Load(context.Background(), "muslim", "french")
	require.NoError(t, err)
	assert.Equal(t, []string{"fra-muslim", "eng-muslim"}, p.Calls())
	assert.Equal(t, []string{"eng-muslim"}, res.Editions)
	assert.Equal(t, edition.English, res.Language)
	assert.Contains(t, res.Notice, "english")
	assert.Equal(t, 10, res.Count)
}

func TestSession_CuratedLoad(t *testing.T) {
	p := newProvider()
	s := newTestEngine(p, nil).NewSession("s1")
	res, err := s.Load(context.Background(), "all", "english")
	require.NoError(t, err)

	assert.Equal(t, edition.AllCollectionsID, res.CollectionID)
	assert.Equal(t, []string{"eng-bukhari", "eng-muslim", "eng-qudsi"}, res.Editions)
	assert.Contains(t, res.Notice, "could not be loaded")
	assert.ElementsMatch(t, []string{"eng-bukhari", "eng-muslim", "eng-nawawi", "eng-qudsi"}, p.Calls())

	set := s.WorkingSet().Entries
	require.NotEmpty(t, set)
	assert.Equal(t, "bukhari", set[0].CollectionID)
	counts := map[string]int{}
	for _, e := range set {
		counts[e.CollectionID]++
	}
	assert.Equal(t, 50, counts["bukhari"])
	assert.LessOrEqual(t, counts["muslim"], 10)
	assert.LessOrEqual(t, counts["qudsi"], 5)
}

func TestSession_IDsUniqueAcrossLoads(t *testing.T) {
	s := newTestEngine(newProvider(), nil).NewSession("s1")
	_, err := s.Load(context.Background(), "muslim", "")
	require.NoError(t, err)
	first := idsOf(s.WorkingSet().Entries)
	_, err = s.Load(context.Background(), "qudsi", "")
	require.NoError(t, err)
	second := idsOf(s.WorkingSet().Entries)
	for _, id := range second {
		assert.NotContains(t, first, id)
	}
}

func TestSession_DedupesWithinLoad(t *testing.T) {
	raw := edition120(30)
	raw = append(raw, models.RawEntry{"hadithnumber": float64(31), "text": raw[0]["text"]})
	p := &fakeProvider{data: map[string][]models.RawEntry{"eng-malik": raw}}
	s := newTestEngine(p, nil).NewSession("s1")
	res, err := s.Load(context.Background(), "malik", "english")
	require.NoError(t, err)
	assert.Equal(t, 30, res.Count)
	assert.Equal(t, 1, res.Dropped)
}

func TestSession_CitationRoundTrip(t *testing.T) {
	p := newProvider()
	s := newTestEngine(p, nil).NewSession("s1")
	_, err := s.Load(context.Background(), "bukhari", "english")
	require.NoError(t, err)

	view := s.Search(context.Background(), "1:42")
	require.Len(t, view.Entries, 1)
	assert.True(t, view.Citation)
	assert.Equal(t, 42, view.Entries[0].EntryNumber)
	assert.Equal(t, "bukhari", view.Entries[0].CollectionID)

	view = s.Search(context.Background(), "2:3")
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "muslim", view.Entries[0].CollectionID)
	assert.Equal(t, "bukhari", s.WorkingSet().CollectionID, "citation lookup must not replace the working set")

	assert.Empty(t, s.Search(context.Background(), "1:999").Entries)
	assert.Empty(t, s.Search(context.Background(), "42:1").Entries)
}

func TestSession_ClearQueryResets(t *testing.T) {
	s := newTestEngine(newProvider(), nil).NewSession("s1")
	_, err := s.Load(context.Background(), "bukhari", "")
	require.NoError(t, err)

	s.Search(context.Background(), "pray")
	_, _ = s.LoadMore()
	view := s.Search(context.Background(), "  ")
	assert.Equal(t, 120, view.Total)
	assert.Equal(t, corpus.Cursor{DisplayedCount: 50, HasMore: true}, view.Cursor)
}

func TestSession_DebouncedQueryAppliesLatest(t *testing.T) {
	s := newTestEngine(newProvider(), nil).NewSession("s1")
	_, err := s.Load(context.Background(), "bukhari", "")
	require.NoError(t, err)

	s.SubmitQuery("pray")
	s.SubmitQuery("knowledge")
	last := s.SubmitQuery("charity")
	assert.Equal(t, last, s.QueryGeneration())

	assert.Eventually(t, func() bool { return s.Page().Query == "charity" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 24, s.Page().Total)
}

func TestSession_SortAndPaging(t *testing.T) {
	s := newTestEngine(newProvider(), nil).NewSession("s1")
	_, err := s.Load(context.Background(), "bukhari", "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetSort("popularity"), ErrUnknownSortKey)
	require.NoError(t, s.SetSort("attributedTo"))
	view, ok := s.LoadMore()
	require.True(t, ok)
	assert.Equal(t, 75, view.Cursor.DisplayedCount)

	require.NoError(t, s.SetSort("default"))
	view = s.Page()
	assert.Equal(t, 50, view.Cursor.DisplayedCount, "sort change resets the cursor")
	assert.Equal(t, 1, view.Entries[0].EntryNumber)
}

func TestSession_LoadErrors(t *testing.T) {
	s := newTestEngine(newProvider(), nil).NewSession("s1")
	_, err := s.Load(context.Background(), "no-such-collection", "english")
	assert.ErrorIs(t, err, edition.ErrUnknownCollection)
	_, err = s.Load(context.Background(), "bukhari", "klingon")
	assert.ErrorIs(t, err, edition.ErrUnknownLanguage)
}

func TestSession_LoadEvents(t *testing.T) {
	rec := &recorder{}
	s := newTestEngine(newProvider(), rec).NewSession("s1")
	res, err := s.Load(context.Background(), "bukhari", "")
	require.NoError(t, err)

	events := rec.Events()
	require.Len(t, events, 6)
	for i, ev := range events[:5] {
		assert.Equal(t, hub.EventBatch, ev.Type)
		assert.Equal(t, i+1, ev.Batch)
		assert.Equal(t, res.LoadID, ev.LoadID)
	}
	last := events[5]
	assert.Equal(t, hub.EventLoaded, last.Type)
	assert.Equal(t, 120, last.Total)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(newTestEngine(newProvider(), nil))
	s := reg.Create()
	got, err := reg.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, reg.Delete(s.ID))
	_, err = reg.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, reg.Delete(s.ID), ErrSessionNotFound)
}

func TestRegistry_SweepsIdleSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(newTestEngine(newProvider(), nil))
	reg.IdleTTL = 10 * time.Minute
	reg.Now = func() time.Time { return now }

	idle := reg.Create()
	active := reg.Create()

	now = now.Add(8 * time.Minute)
	_, err := reg.Get(active.ID)
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	_, err = reg.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = reg.Get(active.ID)
	assert.NoError(t, err)
}

func TestRegistry_EvictsLeastRecentlyUsedAtCap(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(newTestEngine(newProvider(), nil))
	reg.MaxSessions = 2
	reg.Now = func() time.Time { return now }

	first := reg.Create()
	now = now.Add(time.Second)
	second := reg.Create()
	now = now.Add(time.Second)
	_, err := reg.Get(first.ID)
	require.NoError(t, err)

	now = now.Add(time.Second)
	third := reg.Create()
	assert.Equal(t, 2, reg.Len())
	_, err = reg.Get(second.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	for _, s := range []*Session{first, third} {
		_, err := reg.Get(s.ID)
		assert.NoError(t, err)
	}
}

func TestSession_CitationFindsEntryDroppedByDedupe(t *testing.T) {
	shared := "Narrated Abu Huraira: Allah's Messenger said, Faith consists of more than sixty branches, and modesty is a part of faith. "
	require.Greater(t, utf8.RuneCountInString(shared), corpus.SignatureLength)
	p := &fakeProvider{data: map[string][]models.RawEntry{
		"eng-bukhari": {
			{"hadithnumber": float64(41), "text": shared + "First chain."},
			{"hadithnumber": float64(42), "text": shared + "Second chain."},
		},
	}}
	s := newTestEngine(p, nil).NewSession("s1")

	res, err := s.Load(context.Background(), "bukhari", "english")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, res.Dropped)

	view := s.Search(context.Background(), "1:42")
	require.Len(t, view.Entries, 1)
	assert.Equal(t, 42, view.Entries[0].EntryNumber)
	assert.True(t, strings.HasSuffix(view.Entries[0].PrimaryText, "Second chain."))
	assert.NotEqual(t, s.WorkingSet().Entries[0].ID, view.Entries[0].ID)
}

func TestSession_SearchSeesReplacementDuringCommit(t *testing.T) {
	s := newTestEngine(newProvider(), nil).NewSession("s1")
	_, err := s.Load(context.Background(), "bukhari", "english")
	require.NoError(t, err)

	s.mu.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Search(context.Background(), "charity")
	}()
	time.Sleep(20 * time.Millisecond)
	s.store.Replace("muslim", []models.Entry{
		{ID: 900, CollectionID: "muslim", EntryNumber: 1, PrimaryText: "Give charity without delay."},
		{ID: 901, CollectionID: "muslim", EntryNumber: 2, PrimaryText: "Pray on time."},
	})
	s.mu.Unlock()
	<-done

	view := s.Page()
	assert.Equal(t, "charity", view.Query)
	require.Equal(t, 1, view.Total)
	assert.Equal(t, int64(900), view.Entries[0].ID)
}

// gatedProvider holds fetches of one edition until released.
type gatedProvider struct {
	*fakeProvider
	gated   string
	entered chan struct{}
	release chan struct{}
}

func (p *gatedProvider) Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error) {
	if editionID == p.gated {
		close(p.entered)
		<-p.release
	}
	return p.fakeProvider.Fetch(ctx, editionID)
}

func TestSession_SlowCitationDoesNotOverwriteNewerSearch(t *testing.T) {
	p := &gatedProvider{
		fakeProvider: newProvider(),
		gated:        "eng-muslim",
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	s := newTestEngine(p, nil).NewSession("s1")
	_, err := s.Load(context.Background(), "bukhari", "english")
	require.NoError(t, err)

	done := make(chan View, 1)
	go func() { done <- s.Search(context.Background(), "2:3") }()
	select {
	case <-p.entered:
	case <-time.After(time.Second):
		t.Fatal("citation fetch never started")
	}

	latest := s.Search(context.Background(), "charity")
	assert.Equal(t, 24, latest.Total)

	close(p.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("citation search did not return")
	}

	view := s.Page()
	assert.Equal(t, "charity", view.Query)
	assert.False(t, view.Citation)
	assert.Equal(t, 24, view.Total)
	for _, e := range view.Entries {
		assert.Equal(t, "bukhari", e.CollectionID)
	}
}
