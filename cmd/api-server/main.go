package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hadithhub/internal/app"
	"hadithhub/internal/hadith"
	synchub "hadithhub/internal/sync"
	"hadithhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/ws", synchub.WSHandler(a.Hub, a.Log, cfg.Server.AllowedOrigins...))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := a.Hub.Stats()
		if a.DB != nil {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := a.DB.PingContext(pingCtx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":      "not_ready",
					"db_error":    err.Error(),
					"tcp_clients": stats.TCPClients,
					"ws_clients":  stats.WSClients,
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"cache":       a.DB != nil,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	sessions := hadith.NewRegistry(a.Engine)
	sessions.IdleTTL = cfg.Server.SessionIdleTTL
	sessions.MaxSessions = cfg.Server.MaxSessions
	defer sessions.CloseAll()
	go sessions.Run(ctx)

	router.GET("/debug", func(c *gin.Context) {
		stats := a.Hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"provider":    cfg.Provider.BaseURL,
			"db":          cfg.Database.Path,
			"language":    cfg.Engine.DefaultLanguage,
			"sessions":    sessions.Len(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	hadith.NewHandler(sessions).RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}
	tcpSrv := synchub.NewServer(cfg.Server.TCPAddr, a.Hub, a.Log)

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Log.Info("http api listening", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
	case err := <-errCh:
		a.Log.Error("server error", "err", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		a.Log.Warn("http shutdown error", "err", err)
	}

	wg.Wait()
	a.Log.Info("servers stopped")
}
