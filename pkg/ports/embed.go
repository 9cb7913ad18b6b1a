package ports

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// EmbedFunc adapts a single-text embedding call to the shape
// pkg/search.EmbedFunc expects, by embedding a batch of one and
// unwrapping the result.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// AsEmbedFunc turns a full Embed port into the single-text EmbedFunc
// the search engine and ingestion pipeline consume at call sites.
func AsEmbedFunc(e Embed) EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 || len(vecs[0]) == 0 {
			return nil, nil
		}
		return vecs[0], nil
	}
}

// ToPgvector converts a raw embedding slice to the pgvector.Vector
// column type ent persists items.embedding as. Returns nil for an
// empty vector (failed embed), leaving the column NULL.
func ToPgvector(vec []float32) *pgvector.Vector {
	if len(vec) == 0 {
		return nil
	}
	v := pgvector.NewVector(vec)
	return &v
}
