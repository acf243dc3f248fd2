package main

import (
	"flag"
	"log"
	"net/http"

	"hadithhub/internal/mirror"
	"hadithhub/internal/platform/logger"
)

func main() {
	var (
		dir  = flag.String("dir", "data/mirror", "mirror directory written by export-mirror")
		addr = flag.String("addr", ":9000", "listen address")
		mode = flag.String("log", "development", "log mode")
	)
	flag.Parse()

	lg, err := logger.New(*mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()

	// point provider.base_url (or HADITHHUB_PROVIDER_URL) at http://host:port
	lg.Info("mirror-server listening", "addr", *addr, "dir", *dir)
	if err := http.ListenAndServe(*addr, mirror.Handler(*dir, lg)); err != nil {
		lg.Fatal("mirror-server stopped", "err", err)
	}
}
