package storage

import (
	"context"
	"io"
)

// Driver abstracts where property photos live. Local disk in development,
// S3 or R2 in production.
type Driver interface {
	// Upload stores the file under path and returns the storage path and
	// the public URL to serve it from.
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the serving URL for a stored file
	PublicURL(path string) string

	// Reader opens a stored file for processing
	Reader(ctx context.Context, path string) (io.ReadCloser, error)
}
