package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestHTTPReader_GetObject(t *testing.T) {
	payload := gzipBytes(t, `{"a":1}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/c/present.json":
			w.Header().Set("Content-Encoding", "GZIP")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	reader := NewHTTPReader(func(name string) string { return srv.URL + "/c/" + name }, 0)

	t.Run("ok keeps raw payload", func(t *testing.T) {
		obj, err := reader.GetObject(context.Background(), "present.json")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, obj.Status)
		assert.Equal(t, "GZIP", obj.ContentEncoding)
		defer obj.Body.Close()

		data, err := io.ReadAll(obj.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("not found", func(t *testing.T) {
		obj, err := reader.GetObject(context.Background(), "missing.json")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, obj.Status)
		assert.Nil(t, obj.Body)
	})
}

func TestHTTPReader_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	reader := NewHTTPReader(func(name string) string { return url + "/" + name }, 0)
	_, err := reader.GetObject(context.Background(), "x")
	assert.Error(t, err)
}
