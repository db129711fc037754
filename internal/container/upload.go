package container

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/timmy/gzblob/internal/compress"
	"github.com/timmy/gzblob/internal/logger"
	"github.com/timmy/gzblob/internal/storage"
	"github.com/timmy/gzblob/internal/streamio"
)

var blobOptions = storage.PutOptions{
	ContentEncoding: compress.Encoding,
	ContentType:     compress.ContentType,
}

// UploadFromFile compresses the file at filePath into blobName.
func (c *Container) UploadFromFile(ctx context.Context, blobName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return opError("upload", blobName, ErrIO, err)
	}
	defer f.Close()

	return c.upload(ctx, blobName, f)
}

// UploadFromText compresses text into blobName.
func (c *Container) UploadFromText(ctx context.Context, blobName, text string) error {
	return c.upload(ctx, blobName, streamio.SourceFromText(text))
}

// UploadFromReader compresses everything read from r into blobName.
func (c *Container) UploadFromReader(ctx context.Context, blobName string, r io.Reader) error {
	return c.upload(ctx, blobName, r)
}

// UploadJSON marshals v and uploads it as text.
func (c *Container) UploadJSON(ctx context.Context, blobName string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return opError("upload", blobName, ErrParse, err)
	}
	return c.upload(ctx, blobName, streamio.SourceFromText(string(data)))
}

// upload pipes source through the compressor into the remote write and
// waits for both ends. A source failure is reported as ErrIO even when it
// also made the remote write fail. Once the remote write has failed the
// compressor is not waited for: a stalled source must not hide the failure.
func (c *Container) upload(ctx context.Context, blobName string, source io.Reader) error {
	start := time.Now()

	body, compressed := compress.Compress(source)
	defer body.Close()

	// PutObject blocks until the body is consumed or the write fails
	putErr := streamio.Await(func(done func(error)) {
		go func() {
			done(c.remote.PutObject(ctx, blobName, body, blobOptions))
		}()
	})
	// unblocks the compressor if the remote stopped reading early
	body.Close()

	if putErr != nil {
		select {
		case <-compressed.Done():
			if srcErr := compressed.Wait(); srcErr != nil {
				return opError("upload", blobName, ErrIO, srcErr)
			}
		default:
		}
		return opError("upload", blobName, ErrRemote, putErr)
	}
	if srcErr := compressed.Wait(); srcErr != nil {
		return opError("upload", blobName, ErrIO, srcErr)
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Debug(c.withFields(ctx, "upload", blobName), "Blob uploaded")
	return nil
}
