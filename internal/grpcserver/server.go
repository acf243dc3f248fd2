package grpcserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"hadithhub/internal/edition"
	"hadithhub/internal/hadith"
	"hadithhub/internal/platform/logger"
)

type Server struct {
	Sessions *hadith.Registry
	log      *logger.Logger
}

func NewServer(reg *hadith.Registry, log *logger.Logger) *Server {
	return &Server{Sessions: reg, log: logger.OrNop(log)}
}

// Register installs the Corpus service and a health service reporting it
// as serving.
func Register(gs *grpc.Server, srv *Server) *health.Server {
	gs.RegisterService(&ServiceDesc, srv)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

func (s *Server) CreateSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess := s.Sessions.Create()
	return structpb.NewStruct(map[string]any{"id": sess.ID})
}

func (s *Server) Load(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	collection := field(req, "collection")
	if collection == "" {
		return nil, status.Error(codes.InvalidArgument, "collection required")
	}

	res, err := sess.Load(ctx, collection, field(req, "language"))
	switch {
	case errors.Is(err, edition.ErrUnknownCollection):
		return nil, status.Error(codes.NotFound, "unknown collection")
	case errors.Is(err, edition.ErrUnknownLanguage):
		return nil, status.Error(codes.InvalidArgument, "unknown language")
	case err != nil:
		s.log.Warn("grpc load interrupted", "session", sess.ID, "err", err)
		return nil, status.Error(codes.Aborted, "load interrupted")
	}
	return encode(map[string]any{"load": res, "page": sess.Page()})
}

func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	return encode(sess.Search(ctx, field(req, "q")))
}

func (s *Server) Page(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	return encode(sess.Page())
}

func (s *Server) More(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	view, advanced := sess.LoadMore()
	return encode(map[string]any{"advanced": advanced, "page": view})
}

func (s *Server) Sort(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	if err := sess.SetSort(field(req, "key")); err != nil {
		return nil, status.Error(codes.InvalidArgument, "unknown sort key")
	}
	return encode(sess.Page())
}

func (s *Server) session(req *structpb.Struct) (*hadith.Session, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	id := field(req, "session_id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id required")
	}
	sess, err := s.Sessions.Get(id)
	if err != nil {
		return nil, status.Error(codes.NotFound, "session not found")
	}
	return sess, nil
}

func field(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	return strings.TrimSpace(req.GetFields()[name].GetStringValue())
}

func encode(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode failed")
	}
	return out, nil
}
