package file

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source store.go -destination mock_store.go -package file

// ObjectStore is the storage backend as seen by the file service.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Remove(ctx context.Context, keys []string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	SignDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	SignUploadURL(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
	ObjectURL(key string) string
}
