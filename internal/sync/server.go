package sync

import (
	"bufio"
	"context"
	"errors"
	"net"

	"hadithhub/internal/platform/logger"
)

// Server accepts TCP subscribers for load events.
type Server struct {
	Addr string
	Hub  *Hub
	log  *logger.Logger
}

func NewServer(addr string, hub *Hub, log *logger.Logger) *Server {
	return &Server{Addr: addr, Hub: hub, log: logger.OrNop(log)}
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts subscribers on ln until ctx is done. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	s.log.Info("tcp sync listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			continue
		}

		s.Hub.Welcome(conn)
		s.Hub.Add(conn)
		s.log.Info("tcp sync client connected", "remote", conn.RemoteAddr().String())

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				s.log.Info("tcp sync client disconnected", "remote", c.RemoteAddr().String())
			}()

			// subscribers never send anything meaningful; drain until they hang up
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}
