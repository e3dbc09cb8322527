package storage

import (
	"context"
	"io"
	"time"
)

// Provider identifies an ObjectStore implementation. It matches the scheme of
// the storage roots the implementation serves.
type Provider string

const (
	ProviderS3    Provider = "s3"
	ProviderLocal Provider = "file"
)

// ObjectStore is the read/list capability the service needs from object storage.
// Implementations make exactly one backend call per method invocation.
type ObjectStore interface {
	Provider() Provider

	// List returns the first page of keys under in.Prefix. With a delimiter,
	// keys sharing a prefix up to the next delimiter are folded into
	// CommonPrefixes.
	List(ctx context.Context, in ListInput) (*ListOutput, error)

	// Get opens an object. Object.Body is nil when the backend returned no body;
	// otherwise the caller must close it.
	Get(ctx context.Context, bucket, key string) (*Object, error)
}

// ListInput mirrors a ListObjectsV2 request.
type ListInput struct {
	Bucket    string
	Prefix    string
	Delimiter string
	// MaxKeys caps the page size; zero leaves the backend default.
	MaxKeys int32
}

// ListOutput holds one page of a listing.
type ListOutput struct {
	CommonPrefixes []string
	Contents       []ObjectInfo
}

// ObjectInfo describes one listed object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Object is an opened object.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Config carries the settings providers need to build a client.
type Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// LocalBaseDir is the directory holding one subdirectory per bucket for
	// file:// roots.
	LocalBaseDir string
}
