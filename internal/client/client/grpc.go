package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient calls the ListAlbums method of the album feed server.
type GRPCClient struct {
	conn    *grpc.ClientConn
	tokens  TokenSource
	timeout time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeader, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to addr. Extra dial options are appended
// after the defaults, so tests can replace the dialer.
func NewGRPCClient(addr string, timeout time.Duration, tokens TokenSource, opts ...grpc.DialOption) (*GRPCClient, error) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c := &GRPCClient{tokens: tokens, timeout: timeout}

	dial := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(MaxResponseSize)),
	}
	conn, err := grpc.NewClient(addr, append(dial, opts...)...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *GRPCClient) FetchAll(ctx context.Context) ([]models.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := &structpb.ListValue{}
	if err := c.conn.Invoke(ctx, common.ListAlbumsMethod, &emptypb.Empty{}, resp); err != nil {
		return nil, transportErr(SourceGRPC, mapError(err))
	}

	raw, err := protojson.Marshal(resp)
	if err != nil {
		return nil, transportErr(SourceGRPC, fmt.Errorf("%w: %w", ErrDecode, err))
	}

	albums, err := decodeAlbums(raw)
	if err != nil {
		return nil, transportErr(SourceGRPC, err)
	}
	return albums, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
