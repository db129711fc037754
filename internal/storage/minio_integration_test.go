//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	"github.com/timmy/gzblob/internal/storage"
)

// Requires Docker.
func TestMinIOStorage_Container(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcminio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z")
	require.NoError(t, err, "failed to start MinIO")
	defer func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}()

	endpoint, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageTypeMinIO,
		Endpoint:  endpoint,
		AccessKey: ctr.Username,
		SecretKey: ctr.Password,
		Bucket:    testBucket(),
		PageSize:  2,
	})
	require.NoError(t, err)
	require.IsType(t, &storage.MinIOStorage{}, s)

	testBackend(t, s)
}
