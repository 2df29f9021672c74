package submission

import (
	"context"
	"io"
)

// ObjectStorage abstracts the blob store backing submission files.
// Implementations live in infrastructure/storage.
type ObjectStorage interface {
	// Store uploads a blob under the given key and returns its public URL
	Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)

	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the public URL for an existing key
	PublicURL(key string) string
}
