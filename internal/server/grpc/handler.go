package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) ListAlbums(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	items, err := s.albums.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list albums failed", "error", err)
		return nil, status.Error(codes.Internal, "failed to list albums")
	}

	values := make([]interface{}, 0, len(items))
	for _, a := range items {
		values = append(values, a.Map())
	}

	out, err := structpb.NewList(values)
	if err != nil {
		s.logger.Error(ctx, "encode albums failed", "error", err)
		return nil, status.Error(codes.Internal, "failed to encode albums")
	}

	s.logger.Debug(ctx, "listed albums", "count", len(items))
	return out, nil
}
