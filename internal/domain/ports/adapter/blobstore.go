package adapter

import (
	"context"
	"time"
)

// BlobStore holds ad images, banner images, and payment slip images. The core
// workflow only carries the returned reference string.
type BlobStore interface {
	// Put stores raw bytes under path and returns the blob reference.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// PutDataURL decodes a browser data URL (data:image/png;base64,...) and
	// stores it under path.
	PutDataURL(ctx context.Context, path, dataURL string) (string, error)
	// Delete removes a stored blob. Deleting a reference that no longer
	// exists is not an error.
	Delete(ctx context.Context, ref string) error
	// URL returns the public URL for a reference.
	URL(ref string) string
	// SignedURL returns a temporary access URL, e.g. for payment slips that
	// only admins may view.
	SignedURL(ref string, ttl time.Duration) (string, error)
}
