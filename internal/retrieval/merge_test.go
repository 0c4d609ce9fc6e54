package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOverlapping_MergesSpansWithinWindow(t *testing.T) {
	spans := []scoredSpan{
		{filePath: "a.go", start: 1, end: 10, score: 0.5},
		{filePath: "a.go", start: 50, end: 60, score: 0.9}, // 50 - 10 = 40 <= 10+50
	}
	merged := mergeOverlapping(spans, 50)
	require.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].start)
	assert.Equal(t, 60, merged[0].end)
	assert.Equal(t, 0.9, merged[0].score, "merged score must be the max of the inputs")
}

func TestMergeOverlapping_DoesNotMergeFarApartSpans(t *testing.T) {
	spans := []scoredSpan{
		{filePath: "a.go", start: 1, end: 10, score: 0.5},
		{filePath: "a.go", start: 1000, end: 1010, score: 0.9},
	}
	merged := mergeOverlapping(spans, 50)
	assert.Len(t, merged, 2)
}

func TestMergeOverlapping_DoesNotMergeAcrossFiles(t *testing.T) {
	spans := []scoredSpan{
		{filePath: "a.go", start: 1, end: 10, score: 0.5},
		{filePath: "b.go", start: 5, end: 15, score: 0.9},
	}
	merged := mergeOverlapping(spans, 50)
	assert.Len(t, merged, 2)
}

func TestMergeOverlapping_Empty(t *testing.T) {
	assert.Nil(t, mergeOverlapping(nil, 50))
}

func TestMergeOverlapping_Associative(t *testing.T) {
	// a merges with b, then the a+b span merges with c.
	spans := []scoredSpan{
		{filePath: "a.go", start: 1, end: 5, score: 0.1},
		{filePath: "a.go", start: 50, end: 55, score: 0.2},
		{filePath: "a.go", start: 100, end: 105, score: 0.3},
	}
	merged := mergeOverlapping(spans, 50)
	require.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].start)
	assert.Equal(t, 105, merged[0].end)
	assert.Equal(t, 0.3, merged[0].score)
}

func TestSortByScoreDesc(t *testing.T) {
	results := []RetrievalResult{
		{FilePath: "b.go", CombinedScore: 0.5},
		{FilePath: "a.go", CombinedScore: 0.9},
	}
	sortByScoreDesc(results)
	assert.Equal(t, "a.go", results[0].FilePath)
}
