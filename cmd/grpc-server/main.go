package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"hadithhub/internal/app"
	"hadithhub/internal/grpcserver"
	"hadithhub/internal/hadith"
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

	listener, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		a.Log.Fatal("grpc listen failed", "addr", cfg.Server.GRPCAddr, "err", err)
	}

	sessions := hadith.NewRegistry(a.Engine)
	sessions.IdleTTL = cfg.Server.SessionIdleTTL
	sessions.MaxSessions = cfg.Server.MaxSessions
	defer sessions.CloseAll()

	grpcServer := grpc.NewServer()
	hs := grpcserver.Register(grpcServer, grpcserver.NewServer(sessions, a.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx)
	go func() {
		<-ctx.Done()
		a.Log.Info("grpc shutting down")
		hs.Shutdown()
		grpcServer.GracefulStop()
	}()

	a.Log.Info("grpc server listening", "addr", cfg.Server.GRPCAddr)
	if err := grpcServer.Serve(listener); err != nil {
		a.Log.Error("grpc server stopped", "err", err)
	}
}
