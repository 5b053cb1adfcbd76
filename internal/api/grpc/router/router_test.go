package router

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/mediavault-server/internal/api/grpc/vaultpb"
	"github.com/dtroode/mediavault-server/internal/mocks"
	"github.com/dtroode/mediavault-server/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	ctxMgr := mocks.NewContextManager(t)
	parser := mocks.NewTokenParser(t)
	lg := testutil.MakeNoopLogger()

	r := New(mocks.NewVaultService(t), mocks.NewCaptureService(t), parser, ctxMgr, lg, 0)
	s := r.Register()
	require.NotNil(t, s)
	assert.Equal(t, defaultMaxMessageBytes, r.maxMessageBytes)

	info := s.GetServiceInfo()
	assert.Contains(t, info, vaultpb.ServiceName)
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Len(t, info[vaultpb.ServiceName].Methods, 16)
}

func TestRequiresAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.False(t, requiresAuth(ctx, interceptors.NewServerCallMeta("/grpc.health.v1.Health/Check", nil, nil)))
	assert.True(t, requiresAuth(ctx, interceptors.NewServerCallMeta(vaultpb.FullMethod("ListVaults"), nil, nil)))
}
