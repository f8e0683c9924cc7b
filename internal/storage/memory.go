package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/pagewise/internal/models"
)

// MemoryStore implements SessionStore with a map guarded by a RWMutex.
// Sessions live for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.DocumentRecord
	counter  atomic.Uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.DocumentRecord)}
}

// Create stores record under a new id of the form doc_<n>_<suffix>.
func (s *MemoryStore) Create(ctx context.Context, record *models.DocumentRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("%w: nil document record", models.ErrInvalidRequest)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	id := fmt.Sprintf("doc_%d_%s", s.counter.Add(1), uuid.NewString()[:8])

	s.mu.Lock()
	s.sessions[id] = record
	s.mu.Unlock()
	return id, nil
}

// Get returns the record for id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.DocumentRecord, error) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return record, nil
}

// Delete removes the record for id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
