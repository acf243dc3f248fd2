package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"hadithhub/internal/app"
	"hadithhub/internal/mirror"
	"hadithhub/pkg/utils"
)

func main() {
	var (
		outDir = flag.String("out", "data/mirror", "output mirror directory")
		ids    = flag.String("editions", "", "comma-separated edition ids (default: everything cached)")
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

	cache, err := a.OpenCache()
	if err != nil {
		a.Log.Fatal("open cache failed", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := mirror.Export(ctx, cache, *outDir, splitList(*ids))
	if err != nil {
		a.Log.Fatal("export failed", "err", err)
	}
	a.Log.Info("mirror exported", "dir", *outDir, "editions", res.Editions, "entries", res.Entries)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
