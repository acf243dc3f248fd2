package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"hadithhub/internal/app"
	"hadithhub/internal/hadith"
	"hadithhub/pkg/utils"
)

func main() {
	var (
		collection = flag.String("collection", "bukhari", `collection id, name or "all"`)
		language   = flag.String("language", "", "edition language (default from config)")
		query      = flag.String("q", "", "optional search query or citation such as 1:1")
		sortKey    = flag.String("sort", "number", "sort key")
		outPath    = flag.String("out", "data/hadiths.csv", "output CSV path")
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s := a.Engine.NewSession("export")
	defer s.Close()

	res, err := s.Load(ctx, *collection, *language)
	if err != nil {
		a.Log.Fatal("load failed", "collection", *collection, "err", err)
	}
	if res.Notice != "" {
		a.Log.Warn(res.Notice)
	}
	if err := s.SetSort(*sortKey); err != nil {
		a.Log.Fatal("sort failed", "err", err)
	}
	if *query != "" {
		s.Search(ctx, *query)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		a.Log.Fatal("mkdir failed", "err", err)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		a.Log.Fatal("create failed", "err", err)
	}
	defer f.Close()

	entries := s.Results()
	if err := hadith.WriteCSV(f, entries); err != nil {
		a.Log.Fatal("write csv failed", "err", err)
	}
	a.Log.Info("exported", "entries", len(entries), "out", *outPath, "fallback", res.Fallback)
}
