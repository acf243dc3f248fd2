package grpcserver

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "hadithhub.v1.Corpus"

// CorpusServer is the server API of the Corpus service. Requests and
// responses are google.protobuf.Struct documents.
type CorpusServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Load(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Page(context.Context, *structpb.Struct) (*structpb.Struct, error)
	More(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Sort(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(CorpusServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(CorpusServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(srv.(CorpusServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes the Corpus service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CorpusServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateSession", CorpusServer.CreateSession),
		unary("Load", CorpusServer.Load),
		unary("Search", CorpusServer.Search),
		unary("Page", CorpusServer.Page),
		unary("More", CorpusServer.More),
		unary("Sort", CorpusServer.Sort),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hadithhub/v1/corpus.proto",
}

// Client calls the Corpus service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and returns the response document.
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// toStruct converts any JSON-marshalable value to a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
