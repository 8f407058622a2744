// Package store provides catalog.Store implementations: an embedded SQLite
// store and a Postgres store for shared deployments. Both enforce uniqueness
// of (external_id, source_type) with a storage-level constraint.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"catalogsync/internal/catalog"
)

// SQLite is a file-backed catalog store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the catalog database at path. An empty path
// defaults to ~/.catalogsync/catalog.db.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		dir := filepath.Join(os.Getenv("HOME"), ".catalogsync")
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("catalog: mkdir %s: %w", dir, err)
		}
		path = filepath.Join(dir, "catalog.db")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// initSchema creates the contents table if it doesn't exist. The unique index
// on (external_id, source_type) is what backs duplicate detection under
// concurrent imports.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS contents (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		external_id      TEXT NOT NULL,
		source_type      TEXT NOT NULL,
		name             TEXT NOT NULL,
		description      TEXT,
		language         TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		release_date     TEXT,
		media_url        TEXT NOT NULL,
		media_type       TEXT NOT NULL,
		source_url       TEXT NOT NULL,
		category_id      TEXT,
		created_at       TEXT NOT NULL,
		UNIQUE (external_id, source_type)
	)`)
	return err
}

// Exists reports whether a record with this dedup key is present.
func (s *SQLite) Exists(ctx context.Context, externalID string, source catalog.SourceType) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contents WHERE external_id = ? AND source_type = ?`,
		externalID, string(source),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("catalog: exists: %w", err)
	}
	return n > 0, nil
}

// Create persists a normalized content item. A unique-constraint conflict is
// returned as catalog.ErrAlreadyExists.
func (s *SQLite) Create(ctx context.Context, content catalog.NormalizedContent, categoryID string) (catalog.Record, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contents (external_id, source_type, name, description, language,
		                       duration_seconds, release_date, media_url, media_type,
		                       source_url, category_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ExternalID, string(content.SourceType), content.Name, content.Description,
		string(content.Language), content.DurationSeconds, content.ReleaseDate.Format(time.RFC3339),
		content.MediaURL, string(content.MediaType), content.SourceURL,
		categoryID, now.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return catalog.Record{}, catalog.ErrAlreadyExists
		}
		return catalog.Record{}, fmt.Errorf("catalog: insert: %w", err)
	}

	id, _ := res.LastInsertId()
	return catalog.Record{
		ID:                id,
		NormalizedContent: content,
		CategoryID:        categoryID,
		CreatedAt:         now,
	}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }
