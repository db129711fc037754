// Package compress applies and reverses the gzip transform used for every
// blob this module writes, streaming bytes instead of buffering payloads.
package compress

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/timmy/gzblob/internal/streamio"
)

const (
	// Encoding is the content-encoding marker stored with every blob.
	Encoding = "GZIP"

	// ContentType is the content type stored with every blob.
	ContentType = "application/json; charset=utf-8"
)

// ErrEncodingMismatch is returned when a stream's declared encoding is not Encoding.
var ErrEncodingMismatch = errors.New("encoding mismatch")

// IsEncoded reports whether declared matches the gzip marker.
func IsEncoded(declared string) bool {
	return strings.EqualFold(declared, Encoding)
}

// Compress returns the gzip stream of source. Compression runs on its own
// goroutine and produces output as the consumer reads.
//
// The returned Completion settles once source is drained, carrying the first
// error reading source (nil on clean EOF). It settles before the reader sees
// EOF or the source error. The caller must Close the reader; closing it
// before EOF stops the compressor.
func Compress(source io.Reader) (io.ReadCloser, *streamio.Completion) {
	pr, pw := io.Pipe()
	src := &sourceReader{r: source}
	done := streamio.NewCompletion()

	go func() {
		zw := gzip.NewWriter(pw)
		_, err := io.Copy(zw, src)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		done.Settle(src.err)
		pw.CloseWithError(err)
	}()

	return pr, done
}

// sourceReader remembers the first non-EOF read error so source failures can
// be told apart from the pipe being closed by the consumer.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && s.err == nil {
		s.err = err
	}
	return n, err
}

// Decompress checks declaredEncoding and returns a streaming gzip reader over
// source. On a mismatch source is not read.
func Decompress(source io.Reader, declaredEncoding string) (io.ReadCloser, error) {
	if !IsEncoded(declaredEncoding) {
		return nil, fmt.Errorf("%w: declared %q, expected %q", ErrEncodingMismatch, declaredEncoding, Encoding)
	}

	zr, err := gzip.NewReader(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return zr, nil
}

// ReadText reads r to EOF and decodes the bytes as UTF-8 in arrival order.
// Invalid sequences become U+FFFD.
func ReadText(r io.Reader) (string, error) {
	var body strings.Builder
	if _, err := io.Copy(&body, r); err != nil {
		return "", fmt.Errorf("failed to read stream: %w", err)
	}
	return strings.ToValidUTF8(body.String(), "�"), nil
}
