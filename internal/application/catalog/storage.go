package catalog

import (
	"context"
	"io"
)

// ObjectStorage is the port for uploading binary objects (product images)
// and resolving their public URLs
type ObjectStorage interface {
	// Upload stores the object under key and returns its public URL
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
