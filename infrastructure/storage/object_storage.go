package storage

import "context"

// ObjectStorage stores raw photo bytes. The matching engine never talks to
// it directly; the photo service writes at upload time and the fingerprint
// worker reads when extraction is deferred.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	DeletePrefix(ctx context.Context, prefix string) error

	// PublicURL returns the URL clients retrieve the object from.
	PublicURL(key string) string

	Ping(ctx context.Context) error
}
