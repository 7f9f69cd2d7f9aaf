package blob

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore backs local mode and tests. Signed URLs are synthetic but
// carry the expiry so callers can assert TTL handling.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Put(_ context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[path] = memoryObject{data: copied, contentType: contentType}
	return nil
}

func (s *MemoryStore) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[path]; !ok {
		return "", fmt.Errorf("object %s not found", path)
	}
	return fmt.Sprintf("memory://%s?expires=%d", path, int(ttl.Seconds())), nil
}

// Get returns a stored object for test assertions.
func (s *MemoryStore) Get(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}
