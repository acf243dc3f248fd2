package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hadithhub/internal/app"
	"hadithhub/internal/edition"
	"hadithhub/internal/fetcher"
	"hadithhub/pkg/utils"
)

func main() {
	var (
		languages   = flag.String("languages", "", "comma-separated languages (default: all)")
		collections = flag.String("collections", "", "comma-separated collection ids (default: all)")
		parallel    = flag.Int("parallel", 4, "concurrent downloads")
		check       = flag.Bool("check", false, "only compare the edition table with the provider listing")
	)
	flag.Parse()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res := edition.NewResolver()
	if *check {
		listing, err := a.HTTP.ListEditions(ctx)
		if err != nil {
			a.Log.Fatal("list editions failed", "err", err)
		}
		missing := res.Missing(fetcher.Available(listing))
		for _, id := range missing {
			fmt.Println("missing:", id)
		}
		a.Log.Info("edition check done", "provider", len(listing), "mapped", len(res.EditionIDs()), "missing", len(missing))
		if len(missing) > 0 {
			os.Exit(1)
		}
		return
	}

	ids, err := selectEditions(res, *languages, *collections)
	if err != nil {
		a.Log.Fatal("bad selection", "err", err)
	}

	cache, err := a.OpenCache()
	if err != nil {
		a.Log.Fatal("open cache failed", "err", err)
	}

	results, err := cache.Fill(ctx, a.HTTP, ids, *parallel, time.Now())
	if err != nil {
		a.Log.Fatal("cache write failed", "err", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			a.Log.Warn("prefetch failed", "edition", r.EditionID, "err", r.Err)
			continue
		}
		a.Log.Info("prefetched", "edition", r.EditionID, "entries", len(r.Entries))
	}
	a.Log.Info("prefetch done", "editions", len(results)-failed, "failed", failed, "db", cfg.Database.Path)
}

// selectEditions narrows the resolver table by language and collection.
func selectEditions(res *edition.Resolver, languages, collections string) ([]string, error) {
	langs := res.Languages()
	if languages != "" {
		langs = nil
		for _, s := range strings.Split(languages, ",") {
			lang, ok := edition.ParseLanguage(s)
			if !ok {
				return nil, fmt.Errorf("language %q: %w", strings.TrimSpace(s), edition.ErrUnknownLanguage)
			}
			langs = append(langs, lang)
		}
	}

	cat := edition.NewCatalog()
	var cols []string
	if collections == "" {
		for _, c := range cat.All() {
			cols = append(cols, c.ID)
		}
	} else {
		for _, s := range strings.Split(collections, ",") {
			c, err := cat.Lookup(s)
			if err != nil {
				return nil, err
			}
			cols = append(cols, c.ID)
		}
	}

	var ids []string
	for _, lang := range langs {
		for _, col := range cols {
			if id, ok := res.Lookup(col, lang); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
