package model

import (
	"context"
	"io"
)

// ObjectStore holds encrypted blobs keyed by "{owner}/{vault}/{filename}".
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Remove deletes keys and returns the per-key failures. Keys missing
	// from the result were removed.
	Remove(ctx context.Context, keys []string) map[string]error
}

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Key  string
	Size int64
}
