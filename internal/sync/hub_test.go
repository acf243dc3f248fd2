package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_BroadcastsToTCPClients(t *testing.T) {
	hub := NewHub(nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(ln.Addr().String(), hub, nil).Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	welcome, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, welcome, `"welcome"`)

	hub.BroadcastJSON(LoadEvent{Type: EventBatch, CollectionID: "bukhari", Batch: 1, Size: 25, Total: 25})
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := r.ReadString('\n')
	require.NoError(t, err)

	var ev LoadEvent
	require.NoError(t, json.Unmarshal([]byte(line), &ev))
	assert.Equal(t, EventBatch, ev.Type)
	assert.Equal(t, 25, ev.Total)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

func TestWSHandler_ReceivesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	r := gin.New()
	r.GET("/ws", WSHandler(hub, nil))
	srv := httptest.NewServer(r)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "welcome")

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastJSON(LoadEvent{Type: EventLoaded, CollectionID: "muslim", Total: 7})

	_ = ws.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err = ws.ReadMessage()
	require.NoError(t, err)
	var ev LoadEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventLoaded, ev.Type)
	assert.Equal(t, "muslim", ev.CollectionID)
}

func TestWSHandler_WelcomeWhileBroadcasting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	r := gin.New()
	r.GET("/ws", WSHandler(hub, nil))
	srv := httptest.NewServer(r)
	defer srv.Close()

	stop := make(chan struct{})
	broadcasting := make(chan struct{})
	go func() {
		defer close(broadcasting)
		for {
			select {
			case <-stop:
				return
			default:
				hub.BroadcastJSON(LoadEvent{Type: EventBatch, CollectionID: "bukhari", Size: 25})
			}
		}
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	for range 5 {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		_ = ws.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := ws.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), "welcome")

		// every following frame must decode as an event
		for range 3 {
			_, msg, err = ws.ReadMessage()
			require.NoError(t, err)
			var ev LoadEvent
			require.NoError(t, json.Unmarshal(msg, &ev))
			assert.Equal(t, EventBatch, ev.Type)
		}
		_ = ws.Close()
	}
	close(stop)
	<-broadcasting
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://api.local/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.Nil(t, OriginChecker(nil))
	assert.True(t, OriginChecker([]string{"*"})(req("https://anything.example")))

	check := OriginChecker([]string{"https://app.example", "localhost:3000"})
	assert.True(t, check(req("https://app.example")))
	assert.True(t, check(req("http://localhost:3000")))
	assert.True(t, check(req("")))
	assert.False(t, check(req("https://evil.example")))
}

func TestWSHandler_RejectsForeignOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", WSHandler(NewHub(nil), nil, "https://app.example"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ws, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://app.example"}})
	require.NoError(t, err)
	_ = ws.Close()
}
