// Package retrieval combines BM25 lexical scoring and embedding cosine
// similarity into ranked, context-expanded file spans for a query.
package retrieval

// RetrievalResult is a ranked, already-merged span of a file.
type RetrievalResult struct {
	FilePath      string
	StartLine     int // merged span, inclusive
	EndLine       int
	CombinedScore float64
	LexicalScore  float64
	SemanticScore float64
}

// Config tunes the blend weight, similarity floor, and context-expansion
// window. The zero Config is invalid; use DefaultConfig.
type Config struct {
	// SemanticWeight is the convex-blend weight given to the semantic
	// score; the lexical score receives (1 - SemanticWeight).
	SemanticWeight float64

	// MinSimilarityScore drops any result whose post-penalty combined
	// score falls below this floor.
	MinSimilarityScore float64

	// ContextLines is the merge/expansion window C: two spans in the
	// same file merge if they're within this many lines of each other,
	// and a surviving span is expanded by this many lines on each side
	// before extraction (source files only).
	ContextLines int

	// BM25K1 and BM25B are the Okapi BM25 term-saturation and
	// length-normalization parameters.
	BM25K1 float64
	BM25B  float64

	// MinChunkTokens and LowScoreChunkTokens implement the quality
	// filter: chunks under MinChunkTokens are always dropped; chunks
	// under LowScoreChunkTokens are dropped unless their combined score
	// meets LowScoreThreshold.
	MinChunkTokens      int
	LowScoreChunkTokens int
	LowScoreThreshold   float64

	// CandidatePoolSize bounds how many nearest-neighbor candidates are
	// pulled from the embedding store before lexical scoring and
	// filtering narrow them down.
	CandidatePoolSize int
}

// DefaultConfig returns the resolved Open Question defaults: a
// 0.35 lexical / 0.65 semantic blend, MIN_SIMILARITY_SCORE 0.3, a 50
// line context-expansion window, and BM25 k1=1.2/b=0.75.
func DefaultConfig() Config {
	return Config{
		SemanticWeight:      0.65,
		MinSimilarityScore:  0.3,
		ContextLines:        50,
		BM25K1:              1.2,
		BM25B:               0.75,
		MinChunkTokens:      50,
		LowScoreChunkTokens: 100,
		LowScoreThreshold:   0.7,
		CandidatePoolSize:   50,
	}
}
