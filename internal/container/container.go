// Package container stores gzip-compressed JSON blobs in a single remote
// container: uploads from files, text and readers, text and JSON reads,
// deletes, and full listings that follow continuation tokens.
package container

import (
	"context"
	"time"

	"github.com/timmy/gzblob/internal/logger"
	"github.com/timmy/gzblob/internal/storage"
)

const oneDay = 60 * 60 * 24

// DefaultCORSRules allows anonymous GET from any origin, cached for a day.
var DefaultCORSRules = []storage.CORSRule{
	{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{},
		ExposedHeaders: []string{},
		MaxAgeSeconds:  oneDay,
	},
}

// Container performs blob operations against one remote container. It
// holds no per-call state and is safe for concurrent use.
type Container struct {
	remote    storage.Remote
	reader    storage.ObjectReader
	corsRules []storage.CORSRule
}

// Option configures a Container
type Option func(*Container)

// WithPublicReader routes reads through r instead of the remote client,
// e.g. a storage.HTTPReader fetching public URLs. Wrapping the remote with
// storage.Instrument does not cover r; wrap it with storage.InstrumentReader.
func WithPublicReader(r storage.ObjectReader) Option {
	return func(c *Container) {
		c.reader = r
	}
}

// WithCORSRules replaces DefaultCORSRules for SetCORSProperties
func WithCORSRules(rules []storage.CORSRule) Option {
	return func(c *Container) {
		c.corsRules = rules
	}
}

// New creates a Container over remote.
func New(remote storage.Remote, opts ...Option) *Container {
	c := &Container{
		remote:    remote,
		reader:    remote,
		corsRules: DefaultCORSRules,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the remote container name
func (c *Container) Name() string {
	return c.remote.Bucket()
}

// URLOf returns the direct URL of a blob
func (c *Container) URLOf(blobName string) string {
	return c.remote.URLOf(blobName)
}

// EnsureCreated creates the container if it does not exist yet.
func (c *Container) EnsureCreated(ctx context.Context, opts storage.ContainerOptions) error {
	start := time.Now()
	if err := c.remote.CreateContainerIfAbsent(ctx, opts); err != nil {
		return opError("create container", c.Name(), ErrRemote, err)
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Debug(c.withFields(ctx, "ensure_created", ""), "Container ready: public=%t", opts.PublicRead)
	return nil
}

// SetCORSProperties applies the container's CORS rules to the service.
func (c *Container) SetCORSProperties(ctx context.Context) error {
	if err := c.remote.SetCORS(ctx, c.corsRules); err != nil {
		return opError("set cors", c.Name(), ErrRemote, err)
	}
	logger.CtxDebug(c.withFields(ctx, "set_cors", ""), "CORS rules applied: rules=%d", len(c.corsRules))
	return nil
}

// DeleteBlob removes a blob. Deleting a blob that does not exist is an error.
func (c *Container) DeleteBlob(ctx context.Context, blobName string) error {
	if err := c.remote.DeleteObject(ctx, blobName); err != nil {
		return opError("delete", blobName, ErrRemote, err)
	}
	logger.CtxDebug(c.withFields(ctx, "delete", blobName), "Blob deleted")
	return nil
}

func (c *Container) withFields(ctx context.Context, op, blobName string) context.Context {
	fields := logger.Fields{
		logger.FieldComponent: "container",
		logger.FieldContainer: c.Name(),
		logger.FieldOperation: op,
	}
	if blobName != "" {
		fields[logger.FieldBlob] = blobName
	}
	return logger.WithFields(ctx, fields)
}
