package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/timmy/gzblob/internal/logger"
)

// StorageType defines the type of object storage backend
type StorageType string

const (
	StorageTypeR2           StorageType = "r2"
	StorageTypeS3           StorageType = "s3"
	StorageTypeS3Compatible StorageType = "s3compatible"
	StorageTypeMinIO        StorageType = "minio"
	StorageTypeMemory       StorageType = "memory"
)

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	Type         StorageType
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	Bucket       string
	Region       string
	PublicURL    string // Public URL prefix for R2.dev or custom CDN
	PublicDomain string // Storage domain for https://<bucket>.<domain>/<bucket>/<key> URLs
	PageSize     int    // Max keys per listing page, 0 uses the service default
}

// S3Storage implements Remote for S3-compatible services
type S3Storage struct {
	client       *s3.Client
	uploader     *manager.Uploader
	bucket       string
	endpoint     string
	useSSL       bool
	storeType    StorageType
	publicURL    string
	publicDomain string
	region       string
	pageSize     int32
}

// NewS3Storage creates a new S3-compatible storage client
func NewS3Storage(cfg *S3Config) (*S3Storage, error) {
	endpoint := normalizeEndpoint(cfg.Endpoint)

	region := cfg.Region
	if region == "" {
		if cfg.Type == StorageTypeR2 {
			region = "auto"
		} else {
			region = "us-east-1" // Default region for S3-compatible services
		}
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// AWS proper resolves its own endpoint; everything else is path-style
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("%s://%s", scheme(cfg.UseSSL), endpoint))
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:       client,
		uploader:     manager.NewUploader(client),
		bucket:       cfg.Bucket,
		endpoint:     endpoint,
		useSSL:       cfg.UseSSL,
		storeType:    cfg.Type,
		publicURL:    strings.TrimSuffix(cfg.PublicURL, "/"),
		publicDomain: cfg.PublicDomain,
		region:       region,
		pageSize:     int32(cfg.PageSize),
	}, nil
}

// normalizeEndpoint removes protocol prefix and path from endpoint
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}

	return strings.TrimSuffix(endpoint, "/")
}

func scheme(useSSL bool) string {
	if useSSL {
		return "https"
	}
	return "http"
}

// Bucket returns the bucket name
func (s *S3Storage) Bucket() string {
	return s.bucket
}

// CreateContainerIfAbsent creates the bucket if it doesn't exist
func (s *S3Storage) CreateContainerIfAbsent(ctx context.Context, opts ContainerOptions) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	// R2 doesn't support creating buckets via API - must use dashboard
	if s.storeType == StorageTypeR2 {
		return fmt.Errorf("bucket %s does not exist, please create it in R2 dashboard", s.bucket)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if opts.PublicRead {
		_, err = s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(s.bucket),
			Policy: aws.String(publicReadPolicy(s.bucket)),
		})
		if err != nil {
			// Non-fatal: bucket is created, just can't set public policy
			logger.CtxWarn(ctx, "Failed to set public bucket policy: bucket=%s, error=%v", s.bucket, err)
		}
	}

	return nil
}

// SetCORS replaces the bucket CORS configuration
func (s *S3Storage) SetCORS(ctx context.Context, rules []CORSRule) error {
	corsRules := make([]types.CORSRule, 0, len(rules))
	for _, r := range rules {
		corsRules = append(corsRules, types.CORSRule{
			AllowedOrigins: r.AllowedOrigins,
			AllowedMethods: r.AllowedMethods,
			AllowedHeaders: r.AllowedHeaders,
			ExposeHeaders:  r.ExposedHeaders,
			MaxAgeSeconds:  aws.Int32(int32(r.MaxAgeSeconds)),
		})
	}

	_, err := s.client.PutBucketCors(ctx, &s3.PutBucketCorsInput{
		Bucket: aws.String(s.bucket),
		CORSConfiguration: &types.CORSConfiguration{
			CORSRules: corsRules,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set bucket cors: %w", err)
	}
	return nil
}

// PutObject streams body to storage. The uploader switches to multipart for
// bodies of unknown length.
func (s *S3Storage) PutObject(ctx context.Context, name string, body io.Reader, opts PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   body,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentEncoding != "" {
		input.ContentEncoding = aws.String(opts.ContentEncoding)
	}

	_, err := s.uploader.Upload(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// GetObject fetches an object from storage
func (s *S3Storage) GetObject(ctx context.Context, name string) (*Object, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if status, ok := httpStatus(err); ok {
			return &Object{Status: status}, nil
		}
		return nil, fmt.Errorf("failed to download object: %w", err)
	}

	return &Object{
		Status:          http.StatusOK,
		ContentEncoding: aws.ToString(result.ContentEncoding),
		ContentType:     aws.ToString(result.ContentType),
		Body:            result.Body,
	}, nil
}

// ListObjects returns one page of objects under prefix
func (s *S3Storage) ListObjects(ctx context.Context, prefix, continuationToken string) (*ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}
	if s.pageSize > 0 {
		input.MaxKeys = aws.Int32(s.pageSize)
	}

	output, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	page := &ListPage{Entries: make([]BlobEntry, 0, len(output.Contents))}
	for _, obj := range output.Contents {
		if obj.Key == nil {
			continue
		}
		page.Entries = append(page.Entries, BlobEntry{
			Name:         aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
		})
	}
	if aws.ToBool(output.IsTruncated) {
		page.ContinuationToken = aws.ToString(output.NextContinuationToken)
	}
	return page, nil
}

// DeleteObject deletes an object from storage. S3 deletes are idempotent,
// so existence is checked first.
func (s *S3Storage) DeleteObject(ctx context.Context, name string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("failed to delete object %s: %w", name, ErrObjectNotFound)
		}
		return fmt.Errorf("failed to check object existence: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URLOf returns the public URL for accessing an object
func (s *S3Storage) URLOf(name string) string {
	switch {
	case s.publicURL != "":
		return fmt.Sprintf("%s/%s", s.publicURL, escapeKey(name))
	case s.publicDomain != "":
		return PublicBlobURL(s.bucket, s.publicDomain, name)
	case s.endpoint != "":
		return fmt.Sprintf("%s://%s/%s/%s", scheme(s.useSSL), s.endpoint, s.bucket, escapeKey(name))
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escapeKey(name))
	}
}

// httpStatus extracts the HTTP status of a failed SDK call
func httpStatus(err error) (int, bool) {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.HTTPStatusCode(), true
	}
	return 0, false
}

func isNotFound(err error) bool {
	if status, ok := httpStatus(err); ok && status == http.StatusNotFound {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, bucket)
}
