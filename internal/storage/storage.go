// Package storage holds document sessions in memory and, optionally, caches AI analyses on disk.
package storage

import (
	"context"

	"github.com/hyperjump/pagewise/internal/models"
)

// SessionStore holds document session records by id. Records are immutable once created.
type SessionStore interface {
	// Create stores a fully built record and returns its new, never reused id.
	Create(ctx context.Context, record *models.DocumentRecord) (string, error)
	// Get returns the record for id, or an error wrapping models.ErrNotFound.
	Get(ctx context.Context, id string) (*models.DocumentRecord, error)
	// Delete removes the record for id, or returns an error wrapping models.ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}

// AnalysisCache stores bulk AI analyses keyed by a digest of the document content and language.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, bool, error)
	Put(ctx context.Context, key string, result *models.AnalysisResult) error
	Stats(ctx context.Context) (CacheStats, error)
	Close() error
}

// CacheStats describes the analysis cache for status reporting.
type CacheStats struct {
	Enabled   bool  `json:"enabled"`
	Entries   int64 `json:"entries"`
	DiskBytes int64 `json:"disk_bytes"`
}

// NopCache is an AnalysisCache that stores nothing.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*models.AnalysisResult, bool, error) {
	return nil, false, nil
}

func (NopCache) Put(context.Context, string, *models.AnalysisResult) error { return nil }

func (NopCache) Stats(context.Context) (CacheStats, error) { return CacheStats{}, nil }

func (NopCache) Close() error { return nil }
