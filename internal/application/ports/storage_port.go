package ports

import (
	"context"
	"time"
)

// Storage object store holding rendered PDFs. Paths are bucket-relative keys such as
// documents/<fund>/<type>/v3-<uuid>.pdf.
type Storage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
