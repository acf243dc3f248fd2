package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hadithhub/internal/fetcher"
	"hadithhub/pkg/models"
)

// editionFile is the provider's document shape, minus the fields the
// engine never reads.
type editionFile struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Hadiths []models.RawEntry `json:"hadiths"`
}

// ExportResult summarizes one Export run.
type ExportResult struct {
	Editions int
	Entries  int
}

// Export writes every cached edition (or only ids, when given) into dir as
// {id}.json plus an editions.json listing.
func Export(ctx context.Context, cache *fetcher.Cache, dir string, ids []string) (ExportResult, error) {
	var res ExportResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create mirror dir: %w", err)
	}

	if len(ids) == 0 {
		counts, err := cache.List(ctx)
		if err != nil {
			return res, fmt.Errorf("list cache: %w", err)
		}
		for id := range counts {
			ids = append(ids, id)
		}
	}

	listing := make(map[string]fetcher.EditionInfo, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ed, err := cache.Get(ctx, id)
		if err != nil {
			return res, err
		}
		if ed == nil {
			continue
		}

		var doc editionFile
		doc.Metadata.Name = id
		doc.Hadiths = ed.Entries
		if doc.Hadiths == nil {
			doc.Hadiths = []models.RawEntry{}
		}
		if err := writeJSON(filepath.Join(dir, id+".json"), doc); err != nil {
			return res, err
		}

		lang, book, _ := strings.Cut(id, "-")
		listing[id] = fetcher.EditionInfo{Name: id, Book: book, Language: lang}
		res.Editions++
		res.Entries += len(ed.Entries)
	}

	if err := writeJSON(filepath.Join(dir, ListingFile), listing); err != nil {
		return res, err
	}
	return res, nil
}

// writeJSON writes through a temp file so a served mirror never sees a
// half-written edition.
func writeJSON(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}
