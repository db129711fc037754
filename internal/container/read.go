package container

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/timmy/gzblob/internal/compress"
	"github.com/timmy/gzblob/internal/logger"
	"github.com/timmy/gzblob/internal/storage"
)

// ReadText downloads blobName and returns its decompressed text. Status 200
// is the only success; every other status is a *StatusError.
func (c *Container) ReadText(ctx context.Context, blobName string) (string, error) {
	obj, err := c.reader.GetObject(ctx, blobName)
	if err != nil {
		return "", opError("read", blobName, ErrRemote, err)
	}

	switch obj.Status {
	case http.StatusOK:
		text, err := c.readBody(blobName, obj)
		if err != nil {
			return "", err
		}
		logger.With(logger.Fields{
			logger.FieldSize: len(text),
		}).Debug(c.withFields(ctx, "read", blobName), "Blob read")
		return text, nil
	default:
		if obj.Body != nil {
			obj.Body.Close()
		}
		logger.With(logger.Fields{
			logger.FieldStatus: obj.Status,
		}).Debug(c.withFields(ctx, "read", blobName), "Blob read refused")
		return "", &StatusError{Blob: blobName, URL: c.URLOf(blobName), Status: obj.Status}
	}
}

func (c *Container) readBody(blobName string, obj *storage.Object) (string, error) {
	defer obj.Body.Close()

	r, err := compress.Decompress(obj.Body, obj.ContentEncoding)
	if err != nil {
		if compress.IsEncoded(obj.ContentEncoding) {
			return "", opError("read", blobName, ErrIO, err)
		}
		return "", opError("read", blobName, ErrEncodingMismatch, err)
	}
	defer r.Close()

	text, err := compress.ReadText(r)
	if err != nil {
		return "", opError("read", blobName, ErrIO, err)
	}
	return text, nil
}

// ReadJSON reads blobName as text and unmarshals it into v.
func (c *Container) ReadJSON(ctx context.Context, blobName string, v any) error {
	text, err := c.ReadText(ctx, blobName)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return opError("parse", blobName, ErrParse, err)
	}
	return nil
}

// ReadJSONAs reads blobName and decodes it into a new T.
func ReadJSONAs[T any](ctx context.Context, c *Container, blobName string) (T, error) {
	var v T
	err := c.ReadJSON(ctx, blobName, &v)
	return v, err
}
