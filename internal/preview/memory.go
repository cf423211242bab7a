package preview

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
)

// DefaultURLPrefix is where the HTTP host serves memory-backed previews.
const DefaultURLPrefix = "/preview/"

// MemoryStore resolves handles to the selected file's own bytes, the
// way a browser object URL points at its Blob.
type MemoryStore struct {
	prefix string

	mu    sync.RWMutex
	files map[string]*media.File
}

// NewMemoryStore creates a store whose handle URLs start with prefix
func NewMemoryStore(prefix string) *MemoryStore {
	if prefix == "" {
		prefix = DefaultURLPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &MemoryStore{
		prefix: prefix,
		files:  make(map[string]*media.File),
	}
}

// Create registers f and returns a handle for it
func (s *MemoryStore) Create(_ context.Context, f *media.File) (Handle, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.files[id] = f
	s.mu.Unlock()

	return Handle{ID: id, URL: s.prefix + id}, nil
}

// Release forgets the handle
func (s *MemoryStore) Release(_ context.Context, h Handle) error {
	s.mu.Lock()
	delete(s.files, h.ID)
	s.mu.Unlock()
	return nil
}

// Lookup returns the file behind a live handle id
func (s *MemoryStore) Lookup(id string) (*media.File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	return f, ok
}

// Live returns the number of live handles
func (s *MemoryStore) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.files)
}
