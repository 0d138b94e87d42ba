package secondary

import (
	"context"
	"io"
)

// ObjectStore is the port to the remote object storage service holding work
// item inputs and outputs.
type ObjectStore interface {
	// EnsureBucket creates the bucket if it does not exist yet; an existing
	// bucket is not an error
	EnsureBucket(ctx context.Context, bucketKey string) error

	// UploadObject stores the content under the given key
	UploadObject(ctx context.Context, bucketKey, objectKey string, content io.Reader, size int64) error

	// ObjectURL returns the direct (bearer-authenticated) URL of an object,
	// suitable as a work item argument source or sink
	ObjectURL(bucketKey, objectKey string) string

	// SignedDownloadURL mints a time-limited read URL for the object
	SignedDownloadURL(ctx context.Context, bucketKey, objectKey string) (string, error)
}
