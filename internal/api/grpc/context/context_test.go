package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetOwnerID(t *testing.T) {
	m := NewManager()
	uid := uuid.New()
	ctx := m.SetOwnerIDToContext(stdctx.Background(), uid)

	got, ok := m.GetOwnerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uid, got)
}

func TestManager_GetOwnerID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetOwnerIDFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_SetOwnerID_ReplacesClientValue(t *testing.T) {
	m := NewManager()
	uid := uuid.New()
	baseMD := metadata.New(map[string]string{"x-trace-id": "t", "owner_id": uuid.NewString()})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), baseMD)

	ctx := m.SetOwnerIDToContext(ctxWithMD, uid)
	got, ok := m.GetOwnerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uid, got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"t"}, md.Get("x-trace-id"))
}

func TestManager_GetOwnerID_InvalidUUID(t *testing.T) {
	m := NewManager()
	md := metadata.New(map[string]string{"owner_id": "not-a-uuid"})
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)
	_, ok := m.GetOwnerIDFromContext(ctx)
	assert.False(t, ok)
}
