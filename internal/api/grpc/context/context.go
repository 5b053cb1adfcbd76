package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// ownerIDKey is the metadata key used to store and retrieve the owner ID in gRPC context.
const (
	ownerIDKey string = "owner_id"
)

// Manager represents a gRPC context manager for owner ID operations.
// It stores the authenticated owner ID in incoming metadata, replacing any
// value the client sent.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetOwnerIDToContext sets the owner ID in the gRPC context metadata.
func (m *Manager) SetOwnerIDToContext(ctx context.Context, ownerID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{ownerIDKey: ownerID.String()})
	} else {
		md = md.Copy()
		md.Set(ownerIDKey, ownerID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetOwnerIDFromContext retrieves the owner ID from gRPC context metadata.
func (m *Manager) GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	ownerIDs := md.Get(ownerIDKey)
	if len(ownerIDs) == 0 {
		return uuid.Nil, false
	}

	ownerID, err := uuid.Parse(ownerIDs[0])
	if err != nil {
		return uuid.Nil, false
	}

	return ownerID, true
}
