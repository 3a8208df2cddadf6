// Package grpc publishes the album collection over gRPC. The service is
// described by hand, without generated stubs: ListAlbums takes an Empty and
// returns the albums as a google.protobuf.ListValue of JSON objects.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/albumkeeper/internal/common"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AlbumLister is the part of albums.Service the server needs.
type AlbumLister interface {
	List(ctx context.Context) ([]models.Album, error)
}

type GRPCServer struct {
	address   string
	albums    AlbumLister
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer builds a server for address. An empty secretKey disables
// token checks.
func NewGRPCServer(address string, l logging.Logger, albums AlbumLister, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		albums:    albums,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) serviceDesc() *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: common.AlbumServiceName,
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: "ListAlbums",
			Handler:    s.listAlbumsHandler,
		}},
		Metadata: "albumkeeper/v1/albums.proto",
	}
}

func (s *GRPCServer) listAlbumsHandler(_ interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return s.ListAlbums(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: common.ListAlbumsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.ListAlbums(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv.RegisterService(s.serviceDesc(), s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}

func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}
