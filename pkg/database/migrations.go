package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates the full-text and vector search indexes that the
// hybrid search engine (pkg/search) relies on. Ent's schema DSL has no
// concept of functional or ivfflat indexes, so these are applied as raw SQL
// after migrations run, matching the teacher's pattern.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	// GIN index on the weighted tsvector expression search.go builds at
	// query time (title 'A', content 'B', original_input 'C').
	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_items_fts_gin
		ON items USING gin(
			setweight(to_tsvector('russian', COALESCE(title, '')), 'A') ||
			setweight(to_tsvector('russian', COALESCE(content, '')), 'B') ||
			setweight(to_tsvector('russian', COALESCE(original_input, '')), 'C')
		)`)
	if err != nil {
		return fmt.Errorf("failed to create items FTS GIN index: %w", err)
	}

	// Approximate nearest-neighbor index for cosine distance over
	// embeddings, created on every startup (IF NOT EXISTS) whether or not
	// the table holds any rows yet.
	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_items_embedding_ivfflat
		ON items USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`)
	if err != nil {
		return fmt.Errorf("failed to create embedding ivfflat index: %w", err)
	}

	return nil
}
