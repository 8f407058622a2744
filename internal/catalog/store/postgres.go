package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalogsync/internal/catalog"
)

// uniqueViolation is the Postgres error code for unique-constraint conflicts.
const uniqueViolation = "23505"

// Postgres is a pgx-pool-backed catalog store for shared deployments.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a pgx pool and ensures the catalog schema exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS contents (
		id               BIGSERIAL PRIMARY KEY,
		external_id      TEXT NOT NULL,
		source_type      TEXT NOT NULL,
		name             TEXT NOT NULL,
		description      TEXT,
		language         TEXT NOT NULL,
		duration_seconds BIGINT NOT NULL DEFAULT 0,
		release_date     TIMESTAMPTZ,
		media_url        TEXT NOT NULL,
		media_type       TEXT NOT NULL,
		source_url       TEXT NOT NULL,
		category_id      TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (external_id, source_type)
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("catalog: init schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Exists reports whether a record with this dedup key is present.
func (p *Postgres) Exists(ctx context.Context, externalID string, source catalog.SourceType) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contents WHERE external_id = $1 AND source_type = $2)`,
		externalID, string(source),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("catalog: exists: %w", err)
	}
	return exists, nil
}

// Create persists a normalized content item. A unique-constraint conflict is
// returned as catalog.ErrAlreadyExists.
func (p *Postgres) Create(ctx context.Context, content catalog.NormalizedContent, categoryID string) (catalog.Record, error) {
	var id int64
	var createdAt time.Time
	err := p.pool.QueryRow(ctx,
		`INSERT INTO contents (external_id, source_type, name, description, language,
		                       duration_seconds, release_date, media_url, media_type,
		                       source_url, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		content.ExternalID, string(content.SourceType), content.Name, content.Description,
		string(content.Language), content.DurationSeconds, content.ReleaseDate,
		content.MediaURL, string(content.MediaType), content.SourceURL, categoryID,
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return catalog.Record{}, catalog.ErrAlreadyExists
		}
		return catalog.Record{}, fmt.Errorf("catalog: insert: %w", err)
	}

	return catalog.Record{
		ID:                id,
		NormalizedContent: content,
		CategoryID:        categoryID,
		CreatedAt:         createdAt,
	}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() { p.pool.Close() }
