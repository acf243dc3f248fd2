package sync

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hadithhub/internal/platform/logger"
)

// OriginChecker returns the upgrade origin policy for allowed. An empty list
// keeps gorilla's same-origin check; "*" accepts any origin. Entries match
// either a full origin ("https://app.example") or a bare host.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if strings.EqualFold(a, origin) || strings.EqualFold(a, u.Host) {
				return true
			}
		}
		return false
	}
}

// WSHandler subscribes a WebSocket client to load events. allowedOrigins is
// passed to OriginChecker.
func WSHandler(hub *Hub, log *logger.Logger, allowedOrigins ...string) gin.HandlerFunc {
	log = logger.OrNop(log)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     OriginChecker(allowedOrigins),
	}
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Debug("ws upgrade rejected", "remote", c.ClientIP(), "err", err)
			return
		}

		// the hub writes to registered connections, so the welcome goes first
		if err := ws.WriteMessage(
			websocket.TextMessage,
			[]byte(`{"type":"welcome","transport":"websocket"}`+"\n"),
		); err != nil {
			_ = ws.Close()
			return
		}
		hub.AddWS(ws)
		log.Info("ws client connected", "remote", c.ClientIP())

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		log.Info("ws client disconnected", "remote", c.ClientIP())
	}
}
