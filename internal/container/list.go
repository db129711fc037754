package container

import (
	"context"

	"github.com/timmy/gzblob/internal/logger"
	"github.com/timmy/gzblob/internal/storage"
)

// ListBlobs returns every blob under prefix, following continuation tokens
// until the remote reports no more pages. Entries keep the remote's order.
// If any page fails the whole listing fails and nothing is returned.
func (c *Container) ListBlobs(ctx context.Context, prefix string) ([]storage.BlobEntry, error) {
	out := make([]storage.BlobEntry, 0)
	pages := 0
	token := ""
	for {
		page, err := c.remote.ListObjects(ctx, prefix, token)
		if err != nil {
			return nil, opError("list", prefix, ErrRemote, err)
		}
		pages++
		out = append(out, page.Entries...)
		token = page.ContinuationToken
		if token == "" {
			break
		}
	}

	ctx = logger.WithField(c.withFields(ctx, "list", ""), logger.FieldPrefix, prefix)
	logger.With(logger.Fields{
		logger.FieldCount: len(out),
		"pages":           pages,
	}).Debug(ctx, "Blobs listed")
	return out, nil
}

// ListBlobNames is ListBlobs reduced to names.
func (c *Container) ListBlobNames(ctx context.Context, prefix string) ([]string, error) {
	entries, err := c.ListBlobs(ctx, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}
