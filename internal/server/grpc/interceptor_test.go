package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/common"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var listInfo = &grpc.UnaryServerInfo{FullMethod: common.ListAlbumsMethod}

func TestInterceptor_NoSecretAllowsAnything(t *testing.T) {
	s := NewGRPCServer("", logging.Nop(), &fakeLister{}, "")

	called := false
	resp, err := s.accessTokenInterceptor(context.Background(), nil, listInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return "ok", nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_Rejections(t *testing.T) {
	s := NewGRPCServer("", logging.Nop(), &fakeLister{}, "secret")

	tests := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{name: "no metadata", ctx: context.Background(), msg: "missing token"},
		{name: "empty token", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AuthorizationHeader, "")), msg: "missing token"},
		{name: "garbage", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AuthorizationHeader, "not-a-jwt")), msg: "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.accessTokenInterceptor(tt.ctx, nil, listInfo, func(context.Context, interface{}) (interface{}, error) {
				t.Fatal("handler must not run")
				return nil, nil
			})
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Equal(t, tt.msg, status.Convert(err).Message())
		})
	}
}

func TestInterceptor_StoresSubject(t *testing.T) {
	s := NewGRPCServer("", logging.Nop(), &fakeLister{}, "secret")

	tok, err := auth.GenerateToken("albumkeeper-cli", []byte("secret"), time.Minute)
	require.NoError(t, err)

	for _, header := range []string{tok, "Bearer " + tok} {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AuthorizationHeader, header))
		var got string
		_, err = s.accessTokenInterceptor(ctx, nil, listInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			got, _ = SubjectFromContext(ctx)
			return nil, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "albumkeeper-cli", got)
	}
}
