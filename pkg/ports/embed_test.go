package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEmbed struct {
	vecs [][]float32
	err  error
}

func (f fakeEmbed) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f.vecs, f.err
}

func TestAsEmbedFunc(t *testing.T) {
	fn := AsEmbedFunc(fakeEmbed{vecs: [][]float32{{0.1, 0.2}}})
	vec, err := fn(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
}

func TestAsEmbedFunc_Empty(t *testing.T) {
	fn := AsEmbedFunc(fakeEmbed{vecs: [][]float32{{}}})
	vec, err := fn(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Nil(t, vec)
}

func TestToPgvector(t *testing.T) {
	assert.Nil(t, ToPgvector(nil))
	v := ToPgvector([]float32{1, 2, 3})
	if assert.NotNil(t, v) {
		assert.Equal(t, []float32{1, 2, 3}, v.Slice())
	}
}
