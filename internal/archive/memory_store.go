package archive

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore holds the most recent archives in process memory. The oldest
// archives are evicted once size entries are stored or their combined
// length would exceed maxBytes.
type MemoryStore struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, []byte]
	bytes    int64
	maxBytes int64
}

func NewMemoryStore(size int, maxBytes int64) (*MemoryStore, error) {
	if size <= 0 {
		return nil, fmt.Errorf("archive cache size must be positive, got %d", size)
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("archive cache byte budget must be positive, got %d", maxBytes)
	}
	s := &MemoryStore{maxBytes: maxBytes}
	cache, err := lru.NewWithEvict[string, []byte](size, func(_ string, v []byte) {
		s.bytes -= int64(len(v))
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, content []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	size := int64(len(content))
	if size > s.maxBytes {
		return fmt.Errorf("archive of %d bytes exceeds the cache budget of %d bytes", size, s.maxBytes)
	}

	// Evictions run the callback synchronously, so s.bytes is only
	// touched while mu is held.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
	for s.bytes+size > s.maxBytes {
		if _, _, ok := s.cache.RemoveOldest(); !ok {
			break
		}
	}
	s.cache.Add(id, append([]byte(nil), content...))
	s.bytes += size
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	raw, ok := s.cache.Get(strings.TrimSpace(id))
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}

// Len reports how many archives are held.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

// Size reports the combined length of the held archives.
func (s *MemoryStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}
