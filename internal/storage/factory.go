package storage

import (
	"fmt"
	"strings"
)

// NewStorage creates a Remote based on the configuration.
// Parameters:
//   - cfg: storage configuration including endpoint, credentials, and bucket.
// Returns:
//   - Remote: initialized storage client implementation.
//   - error: non-nil if the storage client cannot be created.
func NewStorage(cfg *S3Config) (Remote, error) {
	// Auto-detect storage type if not specified
	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}

	switch cfg.Type {
	case StorageTypeMemory:
		return NewMemoryStorage(cfg.Bucket, cfg.PageSize), nil
	case StorageTypeMinIO:
		s, err := NewMinIOStorage(&MinIOConfig{
			Endpoint:     cfg.Endpoint,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			UseSSL:       cfg.UseSSL,
			Bucket:       cfg.Bucket,
			PublicDomain: cfg.PublicDomain,
			PageSize:     cfg.PageSize,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageTypeR2, StorageTypeS3, StorageTypeS3Compatible:
		s, err := NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// detectStorageType attempts to detect the storage type from the endpoint
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case endpoint == "" || strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
