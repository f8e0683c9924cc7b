package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/pagewise/internal/models"
)

// SQLiteAnalysisCache implements AnalysisCache using SQLite, so that re-uploading the same
// document skips the model call across restarts.
type SQLiteAnalysisCache struct {
	db   *sql.DB
	path string
}

// NewSQLiteAnalysisCache opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteAnalysisCache(dbPath string) (*SQLiteAnalysisCache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteAnalysisCache{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		digest TEXT PRIMARY KEY,
		presentation_summary TEXT NOT NULL,
		slides_analysis TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_last_used_at ON analyses(last_used_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached analysis for key. The second return value is false on a miss.
func (c *SQLiteAnalysisCache) Get(ctx context.Context, key string) (*models.AnalysisResult, bool, error) {
	var result models.AnalysisResult
	var slidesJSON string

	err := c.db.QueryRowContext(ctx,
		`SELECT presentation_summary, slides_analysis FROM analyses WHERE digest = ?`, key,
	).Scan(&result.PresentationSummary, &slidesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(slidesJSON), &result.SlidesAnalysis); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal slides analysis: %w", err)
	}

	_, _ = c.db.ExecContext(ctx, `UPDATE analyses SET last_used_at = ? WHERE digest = ?`, time.Now(), key)
	return &result, true, nil
}

// Put stores result under key, replacing any previous entry.
func (c *SQLiteAnalysisCache) Put(ctx context.Context, key string, result *models.AnalysisResult) error {
	if result == nil {
		return nil
	}
	slides := result.SlidesAnalysis
	if slides == nil {
		slides = []models.PageAnalysis{}
	}
	slidesJSON, err := json.Marshal(slides)
	if err != nil {
		return fmt.Errorf("failed to marshal slides analysis: %w", err)
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO analyses (digest, presentation_summary, slides_analysis, page_count, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(digest) DO UPDATE SET
		   presentation_summary = excluded.presentation_summary,
		   slides_analysis = excluded.slides_analysis,
		   page_count = excluded.page_count,
		   last_used_at = excluded.last_used_at`,
		key, result.PresentationSummary, string(slidesJSON), len(slides), now, now,
	)
	return err
}

// Count returns the number of cached analyses.
func (c *SQLiteAnalysisCache) Count(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count)
	return count, err
}

// Prune removes entries not used since before.
func (c *SQLiteAnalysisCache) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM analyses WHERE last_used_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats reports the entry count and the size of the database files.
func (c *SQLiteAnalysisCache) Stats(ctx context.Context) (CacheStats, error) {
	n, err := c.Count(ctx)
	if err != nil {
		return CacheStats{}, err
	}
	size, err := FilesSize(DatabaseFiles(c.path)...)
	if err != nil {
		return CacheStats{}, err
	}
	return CacheStats{Enabled: true, Entries: n, DiskBytes: size}, nil
}

// Close closes the database connection.
func (c *SQLiteAnalysisCache) Close() error {
	return c.db.Close()
}
