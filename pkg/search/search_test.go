package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondFragment(t *testing.T) {
	assert.Equal(t, "", condFragment("type", ""))
	assert.Equal(t, "AND type = 'task'", condFragment("type", "task"))
	assert.Equal(t, "AND status = 'in''box'", condFragment("status", "in'box"))
}

func TestFormatEmbedding(t *testing.T) {
	got := formatEmbedding([]float32{0.5, -1, 2.25})
	assert.Equal(t, "[0.5,-1,2.25]", got)
}

func TestFormatEmbedding_Empty(t *testing.T) {
	assert.Equal(t, "[]", formatEmbedding(nil))
}
