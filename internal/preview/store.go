// Package preview manages the locally resolvable references used to show a
// selected file before it is uploaded for analysis.
package preview

import (
	"context"
	"sync"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
)

// Handle references the bytes of one file. The zero Handle means no preview.
type Handle struct {
	ID  string
	URL string
}

// IsZero reports whether h references nothing
func (h Handle) IsZero() bool {
	return h.ID == ""
}

// Store creates and releases preview handles.
// Releasing an unknown or already released handle is a no-op.
type Store interface {
	Create(ctx context.Context, f *media.File) (Handle, error)
	Release(ctx context.Context, h Handle) error
}

// Slot holds at most one live handle and releases it before assigning a new one.
type Slot struct {
	mu      sync.Mutex
	store   Store
	current Handle
}

// NewSlot creates an empty slot backed by store
func NewSlot(store Store) *Slot {
	return &Slot{store: store}
}

// Set releases the current handle, then creates and assigns one for f.
// When creation fails the slot is left empty.
func (s *Slot) Set(ctx context.Context, f *media.File) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.releaseLocked(ctx); err != nil {
		logger.Warn("Failed to release previous preview: %v", err)
	}

	h, err := s.store.Create(ctx, f)
	if err != nil {
		return Handle{}, err
	}
	s.current = h
	logger.Debug("Created preview %s for %s", h.ID, f.Name)
	return h, nil
}

// Release releases the current handle, if any
func (s *Slot) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.releaseLocked(ctx)
}

// Current returns the live handle or the zero Handle
func (s *Slot) Current() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *Slot) releaseLocked(ctx context.Context) error {
	if s.current.IsZero() {
		return nil
	}
	h := s.current
	s.current = Handle{}
	logger.Debug("Releasing preview %s", h.ID)
	return s.store.Release(ctx, h)
}
