package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperjump/pagewise/internal/models"
)

// Registry holds one PageIndex per document session. Searches hold the read lock while they
// use an index, so Remove and Add never close an index that is being searched.
type Registry struct {
	mu      sync.RWMutex
	indexes map[string]*PageIndex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{indexes: make(map[string]*PageIndex)}
}

// Add registers idx for sessionID, closing any index it replaces.
func (r *Registry) Add(sessionID string, idx *PageIndex) {
	r.mu.Lock()
	old := r.indexes[sessionID]
	r.indexes[sessionID] = idx
	r.mu.Unlock()
	if old != nil && old != idx {
		_ = old.Close()
	}
}

// Remove closes and forgets the index of sessionID.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	idx := r.indexes[sessionID]
	delete(r.indexes, sessionID)
	r.mu.Unlock()
	if idx != nil {
		_ = idx.Close()
	}
}

// Len returns the number of registered indexes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.indexes)
}

// ensure registers an index built from record unless sessionID already has one. The build
// runs outside the lock; a concurrent build that registered first wins.
func (r *Registry) ensure(sessionID string, record *models.DocumentRecord) error {
	r.mu.RLock()
	_, ok := r.indexes[sessionID]
	r.mu.RUnlock()
	if ok {
		return nil
	}

	built, err := NewPageIndex(record)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.indexes[sessionID]; ok {
		_ = built.Close()
		return nil
	}
	r.indexes[sessionID] = built
	return nil
}

// Search searches the pages of sessionID. When the session has no index yet, one is built
// from record and registered. An index removed before the search starts yields
// models.ErrNotFound.
func (r *Registry) Search(ctx context.Context, sessionID string, record *models.DocumentRecord, query string, limit int) (*models.PageSearchResponse, error) {
	start := time.Now()
	if err := r.ensure(sessionID, record); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexes[sessionID]
	if idx == nil {
		return nil, fmt.Errorf("%w: session %s", models.ErrNotFound, sessionID)
	}
	hits, total, err := idx.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &models.PageSearchResponse{
		SessionID:  sessionID,
		Query:      query,
		Suggestion: idx.Suggest(query),
		Hits:       hits,
		Total:      total,
		QueryTime:  time.Since(start).Milliseconds(),
	}, nil
}
