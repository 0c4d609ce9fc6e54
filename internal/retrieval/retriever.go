package retrieval

import (
	"context"
	"fmt"

	"forge/internal/chunk"
	"forge/internal/embedding"
	"forge/internal/logging"
)

// Retriever answers natural-language queries against a chunk.Store,
// blending BM25 lexical scoring with embedding cosine similarity.
type Retriever struct {
	store  *chunk.Store
	engine embedding.EmbeddingEngine
	cfg    Config
}

// New constructs a Retriever over store using engine to embed queries.
func New(store *chunk.Store, engine embedding.EmbeddingEngine, cfg Config) *Retriever {
	return &Retriever{store: store, engine: engine, cfg: cfg}
}

// Retrieve returns up to k ranked, merged RetrievalResults for query.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]RetrievalResult, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVec, err := r.engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	poolSize := r.cfg.CandidatePoolSize
	if poolSize < k {
		poolSize = k
	}
	candidates, err := r.store.FindSimilar(ctx, queryVec, poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate chunks: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	lines := newFileLineCache()
	bm25 := NewBM25Index(r.cfg.BM25K1, r.cfg.BM25B)
	content := make(map[string]string, len(candidates))

	for _, c := range candidates {
		id := docID(c.Embedding.FilePath, c.Embedding.StartLine, c.Embedding.EndLine)
		text, err := extractExact(lines, c.Embedding.FilePath, c.Embedding.StartLine, c.Embedding.EndLine)
		if err != nil {
			logging.RetrievalWarn("could not read %s for lexical scoring: %v", c.Embedding.FilePath, err)
			text = c.Embedding.Preview
		}
		content[id] = text
		bm25.AddDocument(id, text)
	}
	lexicalRaw := bm25.Score(query)
	lexical := normalizeScores(lexicalRaw)

	var spans []scoredSpan
	for _, c := range candidates {
		id := docID(c.Embedding.FilePath, c.Embedding.StartLine, c.Embedding.EndLine)
		lex := lexical[id]
		sem := c.Similarity

		combined := r.cfg.SemanticWeight*sem + (1-r.cfg.SemanticWeight)*lex
		if !embedding.IsSourceFile(c.Embedding.FilePath) {
			combined *= 0.5
		}
		if combined < r.cfg.MinSimilarityScore {
			continue
		}

		tokens := chunk.EstimateTokens(content[id])
		if !shouldIncludeChunk(tokens, combined, r.cfg) {
			continue
		}

		spans = append(spans, scoredSpan{
			filePath: c.Embedding.FilePath,
			start:    c.Embedding.StartLine,
			end:      c.Embedding.EndLine,
			score:    combined,
			lexical:  lex,
			semantic: sem,
		})
	}

	merged := mergeOverlapping(spans, r.cfg.ContextLines)
	results := toResults(merged)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// shouldIncludeChunk ports the original system's size/score quality
// filter: tiny chunks are always dropped; small chunks are dropped
// unless their score clears a higher bar.
func shouldIncludeChunk(tokens int, score float64, cfg Config) bool {
	if tokens < cfg.MinChunkTokens {
		return false
	}
	if tokens < cfg.LowScoreChunkTokens && score < cfg.LowScoreThreshold {
		return false
	}
	return true
}

func docID(path string, start, end int) string {
	return fmt.Sprintf("%s:%d-%d", path, start, end)
}

func extractExact(lines *fileLineCache, path string, start, end int) (string, error) {
	all, err := lines.get(path)
	if err != nil {
		return "", err
	}
	if start < 1 {
		start = 1
	}
	if end > len(all) {
		end = len(all)
	}
	if start > end {
		return "", nil
	}
	text := ""
	for i := start; i <= end; i++ {
		text += all[i-1] + "\n"
	}
	return text, nil
}

// toResults sorts merged spans by descending combined score (highest
// relevance first) and converts them into the public result type.
func toResults(merged []scoredSpan) []RetrievalResult {
	out := make([]RetrievalResult, len(merged))
	for i, s := range merged {
		out[i] = RetrievalResult{
			FilePath:      s.filePath,
			StartLine:     s.start,
			EndLine:       s.end,
			CombinedScore: s.score,
			LexicalScore:  s.lexical,
			SemanticScore: s.semantic,
		}
	}
	sortByScoreDesc(out)
	return out
}
