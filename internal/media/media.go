package media

import (
	"context"
	"io"
)

// Uploader is the contract the API layer uses to push avatar and cover
// images to the media store. It returns the public URL of the stored object.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data io.Reader, size int64, contentType string) (string, error)
}
