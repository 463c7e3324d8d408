// Package storage holds user-visible media (avatars, game covers) in an
// S3-compatible object store and hands out public URLs for it.
package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader abstracts the object store so services and tests never touch
// the S3 client directly.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	// GetPublicURL returns the CDN-facing URL for a stored key, or "" when
	// one cannot be built.
	GetPublicURL(key string) string
}
