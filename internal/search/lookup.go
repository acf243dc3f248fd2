package search

import (
	"context"
	"fmt"

	"hadithhub/internal/corpus"
	"hadithhub/internal/edition"
	"hadithhub/internal/fetcher"
	"hadithhub/internal/normalize"
	"hadithhub/internal/platform/logger"
	"hadithhub/pkg/models"
)

// Lookup answers citation queries. A hit in the fully loaded collection is
// returned as is; otherwise the collection's edition is fetched and its raw
// list scanned, normalizing only the hit.
type Lookup struct {
	Catalog    *edition.Catalog
	Resolver   *edition.Resolver
	Fetcher    fetcher.Fetcher
	Normalizer *normalize.Normalizer
	IDs        *corpus.IDSequence
	log        *logger.Logger
}

func NewLookup(cat *edition.Catalog, res *edition.Resolver, f fetcher.Fetcher, n *normalize.Normalizer, ids *corpus.IDSequence, log *logger.Logger) *Lookup {
	if n == nil {
		n = normalize.New(0)
	}
	if ids == nil {
		ids = &corpus.IDSequence{}
	}
	return &Lookup{Catalog: cat, Resolver: res, Fetcher: f, Normalizer: n, IDs: ids, log: logger.OrNop(log)}
}

// Find returns at most one entry. A citation with no matching entry yields an
// empty result and no error.
func (l *Lookup) Find(ctx context.Context, c Citation, lang edition.Language, loaded corpus.Snapshot) ([]models.Entry, error) {
	collectionID, ok := l.Catalog.CollectionForCode(c.Code)
	if !ok {
		return nil, fmt.Errorf("citation %s: %w", c, ErrUnknownCitationCode)
	}

	// The loaded set is deduplicated, so a miss there still needs the full list.
	if loaded.CollectionID == collectionID && !loaded.Loading {
		for _, e := range loaded.Entries {
			if e.EntryNumber == c.EntryNumber {
				return []models.Entry{e}, nil
			}
		}
	}

	col, _ := l.Catalog.Get(collectionID)
	raw, err := l.fetch(ctx, collectionID, lang)
	if err != nil {
		return nil, err
	}
	hit, index, ok := normalize.FindNumber(raw, c.EntryNumber)
	if !ok {
		return []models.Entry{}, nil
	}
	e := l.Normalizer.One(hit, col.Meta(), index, l.IDs.Reserve(1))
	return []models.Entry{e}, nil
}

// fetch tries the resolved edition, then the default-language edition.
func (l *Lookup) fetch(ctx context.Context, collectionID string, lang edition.Language) ([]models.RawEntry, error) {
	res, err := l.Resolver.Resolve(collectionID, lang)
	if err != nil {
		return nil, fmt.Errorf("citation lookup: %w", err)
	}
	raw, err := l.Fetcher.Fetch(ctx, res.EditionID)
	if err == nil {
		return raw, nil
	}
	if res.Language == edition.DefaultLanguage || ctx.Err() != nil {
		return nil, err
	}
	fallback, ok := l.Resolver.Lookup(collectionID, edition.DefaultLanguage)
	if !ok {
		return nil, err
	}
	l.log.Warn("citation edition failed, trying default language", "edition", res.EditionID, "fallback", fallback, "err", err)
	return l.Fetcher.Fetch(ctx, fallback)
}
