package interfaces

import "context"

// BlobStore keeps opaque objects such as generated document bodies
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns model.ErrNotFound when the key does not exist
	Get(ctx context.Context, key string) ([]byte, error)
}
