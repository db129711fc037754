package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultMemoryPageSize = 1000

type memObject struct {
	data            []byte
	contentEncoding string
	contentType     string
	lastModified    time.Time
}

// MemoryStorage is an in-process Remote. Listing tokens are the last key of
// the previous page.
type MemoryStorage struct {
	mu       sync.RWMutex
	bucket   string
	objects  map[string]*memObject
	created  bool
	public   bool
	cors     []CORSRule
	pageSize int
}

// NewMemoryStorage creates an empty in-memory container. pageSize <= 0 uses
// a page size of 1000.
func NewMemoryStorage(bucket string, pageSize int) *MemoryStorage {
	if pageSize <= 0 {
		pageSize = defaultMemoryPageSize
	}
	return &MemoryStorage{
		bucket:   bucket,
		objects:  make(map[string]*memObject),
		pageSize: pageSize,
	}
}

func (s *MemoryStorage) Bucket() string {
	return s.bucket
}

func (s *MemoryStorage) CreateContainerIfAbsent(ctx context.Context, opts ContainerOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created {
		s.created = true
		s.public = opts.PublicRead
	}
	return nil
}

func (s *MemoryStorage) SetCORS(ctx context.Context, rules []CORSRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cors = append([]CORSRule(nil), rules...)
	return nil
}

// CORS returns the rules last set with SetCORS
func (s *MemoryStorage) CORS() []CORSRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CORSRule(nil), s.cors...)
}

// IsPublic reports whether the container was created with public reads
func (s *MemoryStorage) IsPublic() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.public
}

func (s *MemoryStorage) PutObject(ctx context.Context, name string, body io.Reader, opts PutOptions) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = &memObject{
		data:            data,
		contentEncoding: opts.ContentEncoding,
		contentType:     opts.ContentType,
		lastModified:    time.Now(),
	}
	return nil
}

func (s *MemoryStorage) GetObject(ctx context.Context, name string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	if !ok {
		return &Object{Status: http.StatusNotFound}, nil
	}
	return &Object{
		Status:          http.StatusOK,
		ContentEncoding: obj.contentEncoding,
		ContentType:     obj.contentType,
		Body:            io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (s *MemoryStorage) ListObjects(ctx context.Context, prefix, continuationToken string) (*ListPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) && key > continuationToken {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	page := &ListPage{}
	if len(keys) > s.pageSize {
		keys = keys[:s.pageSize]
		page.ContinuationToken = keys[len(keys)-1]
	}
	page.Entries = make([]BlobEntry, 0, len(keys))
	for _, key := range keys {
		obj := s.objects[key]
		sum := md5.Sum(obj.data)
		page.Entries = append(page.Entries, BlobEntry{
			Name:         key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
			ETag:         hex.EncodeToString(sum[:]),
			ContentType:  obj.contentType,
		})
	}
	return page, nil
}

func (s *MemoryStorage) DeleteObject(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("failed to delete object %s: %w", name, ErrObjectNotFound)
	}
	delete(s.objects, name)
	return nil
}

func (s *MemoryStorage) URLOf(name string) string {
	return fmt.Sprintf("memory://%s/%s", s.bucket, escapeKey(name))
}
