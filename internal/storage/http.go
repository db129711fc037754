package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPReader reads objects anonymously from their public URLs, bypassing the
// storage SDK. The container must allow public reads.
type HTTPReader struct {
	client *resty.Client
	urlOf  func(name string) string
}

// NewHTTPReader creates a reader fetching urlOf(name) with a plain GET
func NewHTTPReader(urlOf func(name string) string, timeout time.Duration) *HTTPReader {
	client := resty.New()
	// Asking for gzip explicitly keeps net/http from transparently
	// decompressing and dropping the Content-Encoding header.
	client.SetHeader("Accept-Encoding", "gzip")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPReader{
		client: client,
		urlOf:  urlOf,
	}
}

// GetObject fetches name over HTTP. Any status is returned as-is; the body
// is only kept for 200 responses.
func (r *HTTPReader) GetObject(ctx context.Context, name string) (*Object, error) {
	url := r.urlOf(name)
	resp, err := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", url, err)
	}

	obj := &Object{
		Status:          resp.StatusCode(),
		ContentEncoding: resp.Header().Get("Content-Encoding"),
		ContentType:     resp.Header().Get("Content-Type"),
	}
	if obj.Status != http.StatusOK {
		resp.RawBody().Close()
		return obj, nil
	}
	obj.Body = resp.RawBody()
	return obj, nil
}
