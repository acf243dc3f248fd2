package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	hub "hadithhub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9090", "TCP sync server address")
	pretty := flag.Bool("pretty", false, "pretty print raw JSON events")
	flag.Parse()

	for {
		if err := run(*addr, *pretty); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()

		if pretty {
			var obj map[string]any
			if err := json.Unmarshal(line, &obj); err != nil {
				fmt.Println(string(line))
				continue
			}
			b, _ := json.MarshalIndent(obj, "", "  ")
			fmt.Println(string(b))
			continue
		}

		var ev hub.LoadEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			fmt.Println(string(line))
			continue
		}
		fmt.Println(summarize(ev))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func summarize(ev hub.LoadEvent) string {
	switch ev.Type {
	case hub.EventBatch:
		return fmt.Sprintf("%s session=%s load=%s %s batch=%d size=%d total=%d",
			ev.At.Format(time.TimeOnly), ev.SessionID, ev.LoadID, ev.CollectionID, ev.Batch, ev.Size, ev.Total)
	case hub.EventLoaded:
		s := fmt.Sprintf("%s session=%s load=%s %s loaded total=%d dropped=%d",
			ev.At.Format(time.TimeOnly), ev.SessionID, ev.LoadID, ev.CollectionID, ev.Total, ev.Dropped)
		if ev.Fallback {
			s += " (emergency dataset)"
		}
		if ev.Notice != "" {
			s += " notice=" + ev.Notice
		}
		return s
	default:
		return ev.Type
	}
}
