//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	"github.com/timmy/gzblob/internal/storage"
)

// Requires Docker.
func TestS3Storage_LocalStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	ctr, err := localstack.Run(ctx, "localstack/localstack:3.0")
	require.NoError(t, err, "failed to start LocalStack")
	defer func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}()

	endpoint, err := ctr.PortEndpoint(ctx, "4566/tcp", "")
	require.NoError(t, err)

	s, err := storage.NewS3Storage(&storage.S3Config{
		Type:      storage.StorageTypeS3Compatible,
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    testBucket(),
		Region:    "us-east-1",
		PageSize:  2,
	})
	require.NoError(t, err)

	testBackend(t, s)
}
