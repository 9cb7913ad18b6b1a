// Package search implements the hybrid full-text + vector search engine
// over items, issuing raw SQL through the same pgx-backed *sql.DB the ent
// client sits on. Grounded exactly on
// original_source/src/db/search.py (hybrid_search/fts_search/ilike_search/
// find_similar) for algorithm fidelity.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/inbox/pkg/models"
)

// EmbedFunc computes a dense embedding for a query string. Callers supply
// a concrete provider (pkg/ports.Embed); the embedding model itself is an
// out-of-scope external collaborator per the spec.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Engine runs hybrid/FTS/ILIKE/vector queries over the items table.
type Engine struct {
	db    *sql.DB
	embed EmbedFunc
	log   *slog.Logger
}

// New builds a search Engine. embed may be nil, in which case Hybrid falls
// straight back to FTS-only search (mirroring "no embedding available").
func New(db *sql.DB, embed EmbedFunc, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{db: db, embed: embed, log: log}
}

// Filter narrows a search to an item type and/or status.
type Filter struct {
	Type   string
	Status string
}

// Hybrid runs the combined FTS + vector search, falling back to FTS-only
// when no embedding is available, and to an ILIKE scan when the combined
// query returns nothing for a short (<=3 token) query. Any database error
// is swallowed to an empty result set, matching the original's
// "log and return []" failure semantics.
func (e *Engine) Hybrid(ctx context.Context, userID int64, query string, limit int, filter Filter, weights models.SearchWeights) []models.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if e.embed == nil {
		return e.FTS(ctx, userID, query, limit, filter)
	}
	vec, err := e.embed(ctx, query)
	if err != nil || len(vec) == 0 {
		return e.FTS(ctx, userID, query, limit, filter)
	}

	results, err := e.hybridQuery(ctx, userID, query, vec, limit, filter, weights)
	if err != nil {
		e.log.Error("hybrid search failed, falling back to fts", "error", err)
		return e.FTS(ctx, userID, query, limit, filter)
	}

	if len(results) == 0 && len(strings.Fields(query)) <= 3 {
		return e.ILike(ctx, userID, query, limit, filter)
	}
	return results
}

func (e *Engine) hybridQuery(ctx context.Context, userID int64, query string, vec []float32, limit int, filter Filter, weights models.SearchWeights) ([]models.SearchResult, error) {
	embLiteral := formatEmbedding(vec)

	typeCond := condFragment("type", filter.Type)
	statusCond := condFragment("status", filter.Status)

	sqlText := fmt.Sprintf(`
		WITH fts_results AS (
			SELECT
				id,
				LEAST(1.0, ts_rank(
					setweight(to_tsvector('russian', COALESCE(title, '')), 'A') ||
					setweight(to_tsvector('russian', COALESCE(content, '')), 'B') ||
					setweight(to_tsvector('russian', COALESCE(original_input, '')), 'C'),
					plainto_tsquery('russian', $2)
				) * 10) AS fts_score
			FROM items
			WHERE user_id = $1
				AND (
					to_tsvector('russian', COALESCE(title, '') || ' ' || COALESCE(content, '') || ' ' || COALESCE(original_input, ''))
					@@ plainto_tsquery('russian', $2)
				)
				%s %s
		),
		vector_results AS (
			SELECT
				id,
				1 - (embedding <=> $3::vector) AS vector_score
			FROM items
			WHERE user_id = $1
				AND embedding IS NOT NULL
				%s %s
			ORDER BY embedding <=> $3::vector
			LIMIT $4
		),
		combined AS (
			SELECT
				COALESCE(f.id, v.id) AS id,
				COALESCE(f.fts_score, 0) AS fts_score,
				COALESCE(v.vector_score, 0) AS vector_score
			FROM fts_results f
			FULL OUTER JOIN vector_results v ON f.id = v.id
		)
		SELECT
			c.id, i.title, i.content, i.type,
			GREATEST(
				c.fts_score * $5 + c.vector_score * $6,
				c.fts_score * 0.8,
				c.vector_score * 0.8
			) AS score,
			c.fts_score, c.vector_score
		FROM combined c
		JOIN items i ON c.id = i.id
		WHERE (c.fts_score > 0.05 OR c.vector_score > 0.3)
		ORDER BY score DESC
		LIMIT $7
	`, typeCond, statusCond, typeCond, statusCond)

	rows, err := e.db.QueryContext(ctx, sqlText,
		userID, query, embLiteral, limit*3, weights.FTS, weights.Vector, limit)
	if err != nil {
		return nil, fmt.Errorf("hybrid query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// FTS runs full-text search only (no vector component), used when an
// embedding couldn't be produced.
func (e *Engine) FTS(ctx context.Context, userID int64, query string, limit int, filter Filter) []models.SearchResult {
	typeCond := condFragment("type", filter.Type)
	statusCond := condFragment("status", filter.Status)

	sqlText := fmt.Sprintf(`
		SELECT
			id, title, content, type,
			ts_rank(
				setweight(to_tsvector('russian', COALESCE(title, '')), 'A') ||
				setweight(to_tsvector('russian', COALESCE(content, '')), 'B'),
				plainto_tsquery('russian', $2)
			) AS score
		FROM items
		WHERE user_id = $1
			AND (
				to_tsvector('russian', COALESCE(title, '') || ' ' || COALESCE(content, '') || ' ' || COALESCE(original_input, ''))
				@@ plainto_tsquery('russian', $2)
			)
			%s %s
		ORDER BY score DESC
		LIMIT $3
	`, typeCond, statusCond)

	rows, err := e.db.QueryContext(ctx, sqlText, userID, query, limit)
	if err != nil {
		e.log.Error("fts search failed", "error", err)
		return nil
	}
	defer rows.Close()

	results, err := scanScoreOnly(rows, func(score float64) (float64, float64) { return score, 0 })
	if err != nil {
		e.log.Error("fts search scan failed", "error", err)
		return nil
	}
	return results
}

// ILike is the plain substring fallback for short queries FTS tends to
// miss (e.g. two- and three-letter Russian words the tsvector tokenizer
// drops as stop-words).
func (e *Engine) ILike(ctx context.Context, userID int64, query string, limit int, filter Filter) []models.SearchResult {
	typeCond := condFragment("type", filter.Type)
	statusCond := condFragment("status", filter.Status)
	pattern := "%" + query + "%"

	sqlText := fmt.Sprintf(`
		SELECT id, title, content, type, 0.5 AS score
		FROM items
		WHERE user_id = $1
			AND (title ILIKE $2 OR content ILIKE $2 OR original_input ILIKE $2)
			%s %s
		ORDER BY
			CASE WHEN title ILIKE $2 THEN 0 ELSE 1 END,
			created_at DESC
		LIMIT $3
	`, typeCond, statusCond)

	rows, err := e.db.QueryContext(ctx, sqlText, userID, pattern, limit)
	if err != nil {
		e.log.Error("ilike search failed", "error", err)
		return nil
	}
	defer rows.Close()

	results, err := scanScoreOnly(rows, func(score float64) (float64, float64) { return 0, 0 })
	if err != nil {
		e.log.Error("ilike search scan failed", "error", err)
		return nil
	}
	return results
}

// FindSimilar returns items semantically close to itemID (for auto-linking
// during ingestion stage 5), scoped to the same user.
func (e *Engine) FindSimilar(ctx context.Context, itemID int, userID int64, minSimilarity float64, limit int) []models.SearchResult {
	const sqlText = `
		SELECT
			i2.id, i2.title, i2.content, i2.type,
			1 - (i1.embedding <=> i2.embedding) AS score
		FROM items i1
		JOIN items i2 ON i1.user_id = i2.user_id AND i1.id != i2.id
		WHERE i1.id = $1
			AND i1.user_id = $2
			AND i1.embedding IS NOT NULL
			AND i2.embedding IS NOT NULL
			AND 1 - (i1.embedding <=> i2.embedding) >= $3
		ORDER BY i1.embedding <=> i2.embedding
		LIMIT $4
	`
	rows, err := e.db.QueryContext(ctx, sqlText, itemID, userID, minSimilarity, limit)
	if err != nil {
		e.log.Error("find similar failed", "error", err)
		return nil
	}
	defer rows.Close()

	results, err := scanScoreOnly(rows, func(score float64) (float64, float64) { return 0, score })
	if err != nil {
		e.log.Error("find similar scan failed", "error", err)
		return nil
	}
	return results
}

// formatEmbedding renders a query embedding as the PostgreSQL array
// literal pgvector expects, matching _format_embedding in the original.
func formatEmbedding(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// condFragment builds the "AND type = 'x'" / "AND status = 'x'" fragments
// the original implementation assembles with f-strings. value is always
// one of the closed ItemType/ItemStatus enum members validated by the
// caller before reaching this package, never raw user input, so direct
// interpolation (escaped) is safe. Empty value yields no fragment.
func condFragment(column, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("AND %s = %s", column, quoteLiteral(value))
}

// quoteLiteral escapes a value drawn from the closed ItemType/ItemStatus
// enums (never raw user input) for direct interpolation — the type/status
// filter values are validated against models.ValidItemType/ValidItemStatus
// by callers before reaching this package.
func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func scanResults(rows *sql.Rows) ([]models.SearchResult, error) {
	var out []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		var title, content sql.NullString
		var typ string
		if err := rows.Scan(&r.ItemID, &title, &content, &typ, &r.Score, &r.FTSScore, &r.VectorScore); err != nil {
			return nil, err
		}
		r.Title = title.String
		r.Content = content.String
		r.Type = models.ItemType(typ)
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanScoreOnly(rows *sql.Rows, split func(score float64) (fts, vec float64)) ([]models.SearchResult, error) {
	var out []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		var title, content sql.NullString
		var typ string
		var score float64
		if err := rows.Scan(&r.ItemID, &title, &content, &typ, &score); err != nil {
			return nil, err
		}
		r.Title = title.String
		r.Content = content.String
		r.Type = models.ItemType(typ)
		r.Score = score
		r.FTSScore, r.VectorScore = split(score)
		out = append(out, r)
	}
	return out, rows.Err()
}
