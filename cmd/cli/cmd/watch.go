package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	hub "hadithhub/internal/sync"
)

var watchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream load events from a running api-server",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8080/ws", "api-server websocket URL")
}

func runWatch(cmd *cobra.Command, args []string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), watchURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", watchURL)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if flagJSON {
			fmt.Println(string(msg))
			continue
		}
		var ev hub.LoadEvent
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Type == "" {
			fmt.Println(string(msg))
			continue
		}
		fmt.Println(formatEvent(ev))
	}
}

func formatEvent(ev hub.LoadEvent) string {
	at := ev.At.Format(time.TimeOnly)
	if ev.Type == hub.EventLoaded {
		line := fmt.Sprintf("%s%s%s %s%s%s loaded %d entries (%d duplicates dropped)",
			colorGray, at, colorReset, colorBold, ev.CollectionID, colorReset, ev.Total, ev.Dropped)
		if ev.Fallback {
			line += colorYellow + " [emergency dataset]" + colorReset
		}
		return line
	}
	return fmt.Sprintf("%s%s%s %s batch %d +%d = %d", colorGray, at, colorReset, ev.CollectionID, ev.Batch, ev.Size, ev.Total)
}
