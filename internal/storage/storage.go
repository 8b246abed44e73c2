// Package storage provides object storage for user-uploaded files.
package storage

import (
	"context"
	"io"
)

// ObjectStore abstracts the object storage backend used for profile pictures.
type ObjectStore interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes the object stored under key.
	Remove(ctx context.Context, key string) error
}
