package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when an operation targets an object that does not exist.
var ErrObjectNotFound = errors.New("object not found")

// BlobEntry describes one object returned by a listing
type BlobEntry struct {
	Name         string
	Size         int64
	LastModified time.Time
	ETag         string
	ContentType  string
}

// ListPage is one bounded batch of a listing. An empty ContinuationToken
// means there are no more pages.
type ListPage struct {
	Entries           []BlobEntry
	ContinuationToken string
}

// Object is the response to a read. Body is only set when Status is 200.
type Object struct {
	Status          int
	ContentEncoding string
	ContentType     string
	Body            io.ReadCloser
}

// PutOptions holds the metadata stored alongside an object
type PutOptions struct {
	ContentEncoding string
	ContentType     string
}

// ContainerOptions controls how the container is created
type ContainerOptions struct {
	// PublicRead allows anonymous GET of objects
	PublicRead bool
}

// CORSRule is one service-level cross-origin rule
type CORSRule struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAgeSeconds  int
}

// ObjectReader reads a single object.
type ObjectReader interface {
	// GetObject fetches an object. A response with a non-200 status is not an
	// error: it is reported through Object.Status with a nil Body. The error
	// is reserved for failures to reach the remote at all.
	GetObject(ctx context.Context, name string) (*Object, error)
}

// Remote defines the primitives of one object storage container
type Remote interface {
	ObjectReader

	// PutObject streams body into name, replacing any existing object
	PutObject(ctx context.Context, name string, body io.Reader, opts PutOptions) error

	// ListObjects returns one page of objects under prefix
	ListObjects(ctx context.Context, prefix, continuationToken string) (*ListPage, error)

	// DeleteObject removes name. Deleting a missing object fails with ErrObjectNotFound.
	DeleteObject(ctx context.Context, name string) error

	// CreateContainerIfAbsent creates the container if it doesn't exist
	CreateContainerIfAbsent(ctx context.Context, opts ContainerOptions) error

	// SetCORS replaces the container's CORS rules
	SetCORS(ctx context.Context, rules []CORSRule) error

	// URLOf returns the direct URL of an object
	URLOf(name string) string

	// Bucket returns the container name
	Bucket() string
}
