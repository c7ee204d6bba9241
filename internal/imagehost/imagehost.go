// Package imagehost uploads report photos and returns the URL they are
// served from.
package imagehost

import (
	"context"
	"errors"
)

// Uploader stores one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ErrMissingAPIKey is returned by hosts that need a key when none is set.
var ErrMissingAPIKey = errors.New("image host API key is not configured")

// UploadError carries the failure reason reported by the host.
type UploadError struct {
	Status int
	Reason string
}

func (e *UploadError) Error() string {
	return "image upload failed: " + e.Reason
}
