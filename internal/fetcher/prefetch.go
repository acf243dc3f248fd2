package fetcher

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hadithhub/pkg/models"
)

// PrefetchResult is the outcome for one edition.
type PrefetchResult struct {
	EditionID string
	Entries   []models.RawEntry
	Err       error
}

// Prefetch fetches editionIDs concurrently with at most limit requests in
// flight. A failing edition never cancels its siblings; results come back in
// the order of editionIDs.
func Prefetch(ctx context.Context, f Fetcher, editionIDs []string, limit int) []PrefetchResult {
	if limit <= 0 {
		limit = 4
	}
	results := make([]PrefetchResult, len(editionIDs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range editionIDs {
		g.Go(func() error {
			entries, err := f.Fetch(ctx, id)
			results[i] = PrefetchResult{EditionID: id, Entries: entries, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Fill prefetches editionIDs through f and stores every success in c.
// Failed editions are reported in the results and leave their cached copy
// untouched; only a cache write error aborts.
func (c *Cache) Fill(ctx context.Context, f Fetcher, editionIDs []string, limit int, now time.Time) ([]PrefetchResult, error) {
	results := Prefetch(ctx, f, editionIDs, limit)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := c.Put(ctx, r.EditionID, r.Entries, now); err != nil {
			return results, err
		}
	}
	return results, nil
}
