package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBM25_ScoresExactMatchHigherThanNoMatch(t *testing.T) {
	idx := NewBM25Index(1.2, 0.75)
	idx.AddDocument("a", "func parseConfig(path string) error { return nil }")
	idx.AddDocument("b", "func renderTemplate(w io.Writer) error { return nil }")

	scores := idx.Score("parseConfig")
	require.Contains(t, scores, "a")
	require.Contains(t, scores, "b")
	assert.Greater(t, scores["a"], scores["b"])
}

func TestBM25_UnknownTermScoresZero(t *testing.T) {
	idx := NewBM25Index(1.2, 0.75)
	idx.AddDocument("a", "func parseConfig(path string) error { return nil }")

	scores := idx.Score("nonexistentTermXYZ")
	assert.Equal(t, 0.0, scores["a"])
}

func TestNormalizeScores_DividesByMax(t *testing.T) {
	raw := map[string]float64{"a": 2.0, "b": 1.0, "c": 0.0}
	norm := normalizeScores(raw)
	assert.Equal(t, 1.0, norm["a"])
	assert.Equal(t, 0.5, norm["b"])
	assert.Equal(t, 0.0, norm["c"])
}
