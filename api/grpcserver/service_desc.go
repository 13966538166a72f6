package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name. Messages are the
// protobuf well-known types, so no generated code is needed on either side.
const ServiceName = "rbtree.v1.TreeService"

const (
	methodInsert = "/" + ServiceName + "/Insert"
	methodSearch = "/" + ServiceName + "/Search"
	methodKeys   = "/" + ServiceName + "/Keys"
	methodStats  = "/" + ServiceName + "/Stats"
)

// TreeServer is the server API for rbtree.v1.TreeService.
type TreeServer interface {
	Insert(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
	Search(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	Keys(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Register attaches srv to a gRPC server.
func Register(s grpc.ServiceRegistrar, srv TreeServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TreeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Insert", Handler: unary(methodInsert, TreeServer.Insert)},
		{MethodName: "Search", Handler: unary(methodSearch, TreeServer.Search)},
		{MethodName: "Keys", Handler: unary(methodKeys, TreeServer.Keys)},
		{MethodName: "Stats", Handler: unary(methodStats, TreeServer.Stats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rbtree/v1/tree.proto",
}

func unary[Req, Resp any](
	fullMethod string,
	call func(TreeServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(
		srv any,
		ctx context.Context,
		dec func(any) error,
		interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TreeServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TreeServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// -------------------- Client --------------------

// Client calls rbtree.v1.TreeService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Insert(ctx context.Context, key int64, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, methodInsert, wrapperspb.Int64(key), new(emptypb.Empty), opts...)
}

func (c *Client) Search(ctx context.Context, key int64, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, methodSearch, wrapperspb.Int64(key), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *Client) Keys(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodKeys, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		keys = append(keys, v.GetStringValue())
	}
	return keys, nil
}

func (c *Client) Stats(ctx context.Context, opts ...grpc.CallOption) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodStats, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
