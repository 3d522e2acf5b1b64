package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMissingSigner indicates signed URL support is not configured.
var ErrMissingSigner = errors.New("storage: signed url signer not configured")

// Storage is the object store surface the service depends on. Drivers
// exist for S3, GCS, and MinIO.
type Storage interface {
	io.Closer

	// PutObject writes the full contents of r under bucket/key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// StatObject fetches object metadata without downloading the body.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// DeleteObject removes the object.
	DeleteObject(ctx context.Context, bucket, key string) error
	// PresignGet produces a time-limited download URL.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// PutOptions configures a single upload.
type PutOptions struct {
	Size        int64             // expected content length
	ContentType string            // MIME type for the object
	Metadata    map[string]string // custom key/value metadata
}

// ObjectInfo is the driver-neutral view of a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string // empty when the backend does not report one
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
