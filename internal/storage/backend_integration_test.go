//go:build integration

package storage_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/gzblob/internal/container"
	"github.com/timmy/gzblob/internal/metrics"
	"github.com/timmy/gzblob/internal/storage"
)

// testBackend runs the same checks against a live backend configured with a
// page size of 2.
func testBackend(t *testing.T, s storage.Remote) {
	ctx := context.Background()
	remote := storage.Instrument(s)

	require.NoError(t, remote.CreateContainerIfAbsent(ctx, storage.ContainerOptions{PublicRead: true}))
	require.NoError(t, remote.CreateContainerIfAbsent(ctx, storage.ContainerOptions{PublicRead: true}))
	require.NoError(t, remote.SetCORS(ctx, container.DefaultCORSRules))

	t.Run("put and get keep metadata", func(t *testing.T) {
		err := remote.PutObject(ctx, "meta/one", strings.NewReader("payload"), storage.PutOptions{
			ContentEncoding: "GZIP",
			ContentType:     "application/json; charset=utf-8",
		})
		require.NoError(t, err)

		obj, err := remote.GetObject(ctx, "meta/one")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, obj.Status)
		defer obj.Body.Close()

		assert.Equal(t, "GZIP", obj.ContentEncoding)
		assert.Equal(t, "application/json; charset=utf-8", obj.ContentType)
		data, err := io.ReadAll(obj.Body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("missing object is a 404", func(t *testing.T) {
		obj, err := remote.GetObject(ctx, "meta/"+uuid.New().String())
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, obj.Status)
	})

	t.Run("listing follows continuation tokens", func(t *testing.T) {
		blobs := container.New(remote)
		want := []string{"page/1", "page/2", "page/3", "page/4", "page/5"}
		for _, name := range want {
			require.NoError(t, blobs.UploadFromText(ctx, name, name))
		}

		pagesBefore := testutil.ToFloat64(metrics.ListPagesTotal)
		names, err := blobs.ListBlobNames(ctx, "page/")
		require.NoError(t, err)

		assert.Equal(t, want, names)
		assert.Equal(t, pagesBefore+3, testutil.ToFloat64(metrics.ListPagesTotal))

		text, err := blobs.ReadText(ctx, "page/3")
		require.NoError(t, err)
		assert.Equal(t, "page/3", text)
	})

	t.Run("deleting twice reports the missing blob", func(t *testing.T) {
		require.NoError(t, remote.PutObject(ctx, "gone", strings.NewReader("x"), storage.PutOptions{}))
		require.NoError(t, remote.DeleteObject(ctx, "gone"))

		err := remote.DeleteObject(ctx, "gone")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)

		err = container.New(remote).DeleteBlob(ctx, "gone")
		assert.ErrorIs(t, err, container.ErrRemote)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}

func testBucket() string {
	return "it-" + uuid.New().String()[:8]
}
