package storage

import (
	"context"
	"sync"
	"time"

	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
)

var _ identityapp.ImageStorage = (*MemoryBlobStorage)(nil)

// MemoryBlobStorage keeps objects in process memory. It backs storage.type=stub
// in development; signed URLs point at BaseURL and are not served.
type MemoryBlobStorage struct {
	// BaseURL prefixes generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryBlobStorage creates an empty MemoryBlobStorage
func NewMemoryBlobStorage() *MemoryBlobStorage {
	return &MemoryBlobStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]memoryObject),
	}
}

// Upload stores a copy of data under storageKey
func (s *MemoryBlobStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = memoryObject{data: buf, contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a fake signed URL for storageKey
func (s *MemoryBlobStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + storageKey + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// DeleteObject removes storageKey; missing keys are ignored
func (s *MemoryBlobStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// Get returns the stored bytes and content type of storageKey
func (s *MemoryBlobStorage) Get(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj.data, obj.contentType, ok
}
