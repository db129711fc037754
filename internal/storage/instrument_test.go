package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/gzblob/internal/metrics"
)

func TestInstrument_CountsOperations(t *testing.T) {
	ctx := context.Background()
	remote := Instrument(NewMemoryStorage("test", 0))

	putBefore := testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("put", "success"))
	bytesBefore := testutil.ToFloat64(metrics.UploadedBytesTotal)
	getMissBefore := testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("get", "404"))
	delErrBefore := testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("delete", "error"))
	pagesBefore := testutil.ToFloat64(metrics.ListPagesTotal)

	require.NoError(t, remote.PutObject(ctx, "k", strings.NewReader("12345"), PutOptions{}))
	_, err := remote.GetObject(ctx, "missing")
	require.NoError(t, err)
	assert.Error(t, remote.DeleteObject(ctx, "missing"))
	_, err = remote.ListObjects(ctx, "", "")
	require.NoError(t, err)

	assert.Equal(t, putBefore+1, testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("put", "success")))
	assert.Equal(t, bytesBefore+5, testutil.ToFloat64(metrics.UploadedBytesTotal))
	assert.Equal(t, getMissBefore+1, testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("get", "404")))
	assert.Equal(t, delErrBefore+1, testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("delete", "error")))
	assert.Equal(t, pagesBefore+1, testutil.ToFloat64(metrics.ListPagesTotal))
}

func TestInstrument_PassesThrough(t *testing.T) {
	mem := NewMemoryStorage("bucket", 0)
	remote := Instrument(mem)

	assert.Equal(t, "bucket", remote.Bucket())
	assert.Equal(t, mem.URLOf("a b"), remote.URLOf("a b"))
}

func TestInstrumentReader_CountsPublicReads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.Write([]byte("body"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	reader := InstrumentReader(NewHTTPReader(func(name string) string { return srv.URL + "/" + name }, 0), "public_get")

	okBefore := testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("public_get", "success"))
	missBefore := testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("public_get", "404"))

	obj, err := reader.GetObject(context.Background(), "ok")
	require.NoError(t, err)
	obj.Body.Close()
	_, err = reader.GetObject(context.Background(), "missing")
	require.NoError(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("public_get", "success")))
	assert.Equal(t, missBefore+1, testutil.ToFloat64(metrics.StorageOperationsTotal.WithLabelValues("public_get", "404")))
}
