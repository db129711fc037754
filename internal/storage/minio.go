package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/cors"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/timmy/gzblob/internal/logger"
)

// MinIOStorage implements Remote using MinIO
type MinIOStorage struct {
	client       *minio.Client
	core         minio.Core
	bucket       string
	endpoint     string
	useSSL       bool
	publicDomain string
	pageSize     int
}

// MinIOConfig holds configuration for MinIO client
type MinIOConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	Bucket       string
	PublicDomain string
	PageSize     int
}

// NewMinIOStorage creates a new MinIO storage client
func NewMinIOStorage(cfg *MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(normalizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOStorage{
		client:       client,
		core:         minio.Core{Client: client},
		bucket:       cfg.Bucket,
		endpoint:     normalizeEndpoint(cfg.Endpoint),
		useSSL:       cfg.UseSSL,
		publicDomain: cfg.PublicDomain,
		pageSize:     cfg.PageSize,
	}, nil
}

// Bucket returns the bucket name
func (s *MinIOStorage) Bucket() string {
	return s.bucket
}

// CreateContainerIfAbsent creates the bucket if it doesn't exist
func (s *MinIOStorage) CreateContainerIfAbsent(ctx context.Context, opts ContainerOptions) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	if opts.PublicRead {
		err = s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket))
		if err != nil {
			// Non-fatal: bucket is created, just can't set public policy
			logger.CtxWarn(ctx, "Failed to set public bucket policy: bucket=%s, error=%v", s.bucket, err)
		}
	}

	return nil
}

// SetCORS replaces the bucket CORS configuration
func (s *MinIOStorage) SetCORS(ctx context.Context, rules []CORSRule) error {
	corsRules := make([]cors.Rule, 0, len(rules))
	for _, r := range rules {
		corsRules = append(corsRules, cors.Rule{
			AllowedOrigin: r.AllowedOrigins,
			AllowedMethod: r.AllowedMethods,
			AllowedHeader: r.AllowedHeaders,
			ExposeHeader:  r.ExposedHeaders,
			MaxAgeSeconds: r.MaxAgeSeconds,
		})
	}

	if err := s.client.SetBucketCors(ctx, s.bucket, cors.NewConfig(corsRules)); err != nil {
		return fmt.Errorf("failed to set bucket cors: %w", err)
	}
	return nil
}

// PutObject streams body to MinIO. A size of -1 makes the client upload in parts.
func (s *MinIOStorage) PutObject(ctx context.Context, name string, body io.Reader, opts PutOptions) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, body, -1, minio.PutObjectOptions{
		ContentType:     opts.ContentType,
		ContentEncoding: opts.ContentEncoding,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// GetObject fetches an object from MinIO
func (s *MinIOStorage) GetObject(ctx context.Context, name string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %w", err)
	}

	// GetObject is lazy; Stat performs the request
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if resp := minio.ToErrorResponse(err); resp.StatusCode != 0 {
			return &Object{Status: resp.StatusCode}, nil
		}
		return nil, fmt.Errorf("failed to download object: %w", err)
	}

	return &Object{
		Status:          http.StatusOK,
		ContentEncoding: info.Metadata.Get("Content-Encoding"),
		ContentType:     info.ContentType,
		Body:            obj,
	}, nil
}

// ListObjects returns one page of objects under prefix
func (s *MinIOStorage) ListObjects(ctx context.Context, prefix, continuationToken string) (*ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.core.ListObjectsV2(s.bucket, prefix, "", continuationToken, "", s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	page := &ListPage{Entries: make([]BlobEntry, 0, len(result.Contents))}
	for _, obj := range result.Contents {
		page.Entries = append(page.Entries, BlobEntry{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
			ContentType:  obj.ContentType,
		})
	}
	if result.IsTruncated {
		page.ContinuationToken = result.NextContinuationToken
	}
	return page, nil
}

// DeleteObject deletes an object from MinIO. RemoveObject succeeds for
// missing keys, so existence is checked first.
func (s *MinIOStorage) DeleteObject(ctx context.Context, name string) error {
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		var minioErr minio.ErrorResponse
		if errors.As(err, &minioErr) && (minioErr.StatusCode == http.StatusNotFound || minioErr.Code == "NoSuchKey") {
			return fmt.Errorf("failed to delete object %s: %w", name, ErrObjectNotFound)
		}
		return fmt.Errorf("failed to check object existence: %w", err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URLOf returns the URL for accessing an object
func (s *MinIOStorage) URLOf(name string) string {
	if s.publicDomain != "" {
		return PublicBlobURL(s.bucket, s.publicDomain, name)
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme(s.useSSL), s.endpoint, s.bucket, escapeKey(name))
}
