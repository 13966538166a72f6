package grpcserver

import (
	"context"
	"errors"
	"log"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"redblack/service"
)

// Server adapts TreeService to gRPC.
type Server struct {
	svc *service.TreeService[int64]
}

var _ TreeServer = (*Server)(nil)

func NewServer(svc *service.TreeService[int64]) *Server {
	return &Server{svc: svc}
}

// -------------------- Commands --------------------

func (s *Server) Insert(
	ctx context.Context,
	req *wrapperspb.Int64Value,
) (*emptypb.Empty, error) {
	if err := s.svc.Insert(req.GetValue()); err != nil {
		log.Printf("[gRPC] Insert key=%d failed: %v", req.GetValue(), err)
		return nil, toStatus(err)
	}
	log.Printf("[gRPC] Insert key=%d", req.GetValue())
	return &emptypb.Empty{}, nil
}

// -------------------- Queries --------------------

func (s *Server) Search(
	ctx context.Context,
	req *wrapperspb.Int64Value,
) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.svc.Search(req.GetValue())), nil
}

// Keys returns keys in ascending order as decimal strings; ListValue
// numbers are float64 and would round large int64 keys.
func (s *Server) Keys(
	ctx context.Context,
	_ *emptypb.Empty,
) (*structpb.ListValue, error) {
	keys := s.svc.Keys()
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(keys))}
	for _, k := range keys {
		out.Values = append(out.Values, structpb.NewStringValue(strconv.FormatInt(k, 10)))
	}
	return out, nil
}

func (s *Server) Stats(
	ctx context.Context,
	_ *emptypb.Empty,
) (*structpb.Struct, error) {
	st := s.svc.Stats()
	fields := map[string]*structpb.Value{
		"size":     structpb.NewNumberValue(float64(st.Size)),
		"height":   structpb.NewNumberValue(float64(st.Height)),
		"last_seq": structpb.NewStringValue(strconv.FormatUint(st.LastSeq, 10)),
	}
	if !st.Empty {
		fields["root"] = structpb.NewStringValue(strconv.FormatInt(st.RootKey, 10))
	}
	return &structpb.Struct{Fields: fields}, nil
}

// -------------------- Converters --------------------

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrTrackerFailed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
