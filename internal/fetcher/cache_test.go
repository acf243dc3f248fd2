package fetcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hadithhub/pkg/database"
	"hadithhub/pkg/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewCache(db)
}

type stubFetcher struct {
	calls   int32
	entries []models.RawEntry
	err     error
}

func (s *stubFetcher) Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, &FetchError{EditionID: editionID, Err: s.err}
	}
	return s.entries, nil
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "eng-bukhari")
	require.NoError(t, err)
	assert.Nil(t, got)

	entries := []models.RawEntry{{"hadithnumber": 7, "text": "seven"}}
	require.NoError(t, c.Put(ctx, "eng-bukhari", entries, time.Now()))

	got, err = c.Get(ctx, "eng-bukhari")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 1)
	n, ok := got.Entries[0].Int("hadithnumber")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	assert.Equal(t, "seven", got.Entries[0].String("text"))

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"eng-bukhari": 1}, list)
}

func TestCachedFetcher_ServesFreshFromCache(t *testing.T) {
	c := newTestCache(t)
	next := &stubFetcher{entries: []models.RawEntry{{"text": "a"}}}
	cf := NewCachedFetcher(next, c, time.Hour, nil)
	ctx := context.Background()

	_, err := cf.Fetch(ctx, "eng-bukhari")
	require.NoError(t, err)
	got, err := cf.Fetch(ctx, "eng-bukhari")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))
}

func TestCachedFetcher_RefetchesExpired(t *testing.T) {
	c := newTestCache(t)
	next := &stubFetcher{entries: []models.RawEntry{{"text": "a"}}}
	cf := NewCachedFetcher(next, c, time.Minute, nil)
	now := time.Now()
	cf.Now = func() time.Time { return now }
	ctx := context.Background()

	_, err := cf.Fetch(ctx, "eng-bukhari")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cf.Fetch(ctx, "eng-bukhari")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&next.calls))
}

func TestCachedFetcher_StaleOnFailure(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "eng-bukhari", []models.RawEntry{{"text": "old"}}, time.Now().Add(-48*time.Hour)))

	next := &stubFetcher{err: errors.New("offline")}
	cf := NewCachedFetcher(next, c, time.Hour, nil)

	got, err := cf.Fetch(ctx, "eng-bukhari")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].String("text"))
}

func TestCachedFetcher_FailureWithoutCache(t *testing.T) {
	c := newTestCache(t)
	next := &stubFetcher{err: errors.New("offline")}
	cf := NewCachedFetcher(next, c, time.Hour, nil)

	_, err := cf.Fetch(context.Background(), "eng-bukhari")
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
}

type byIDFetcher map[string][]models.RawEntry

func (b byIDFetcher) Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error) {
	if raw, ok := b[editionID]; ok {
		return raw, nil
	}
	return nil, &FetchError{EditionID: editionID, Status: 404, Err: errors.New("not found")}
}

func TestCache_Fill(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "eng-gone", []models.RawEntry{{"text": "kept"}}, time.Now()))

	f := byIDFetcher{
		"eng-bukhari": {{"text": "a"}, {"text": "b"}},
		"eng-muslim":  {{"text": "c"}},
	}
	results, err := c.Fill(ctx, f, []string{"eng-bukhari", "eng-gone", "eng-muslim"}, 2, time.Now())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.True(t, IsFetchError(results[1].Err))
	assert.NoError(t, results[2].Err)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"eng-bukhari": 2, "eng-gone": 1, "eng-muslim": 1}, list)
}
