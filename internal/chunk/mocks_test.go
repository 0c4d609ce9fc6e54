package chunk

import "context"

// mockEmbeddingEngine implements embedding.EmbeddingEngine for testing,
// using a function-field pattern so individual tests can override
// just the behavior they need.
type mockEmbeddingEngine struct {
	dimension      int
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbeddingEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *mockEmbeddingEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	dim := m.dimension
	if dim == 0 {
		dim = 4
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = float32(len(text)%7+j) / 10.0
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbeddingEngine) Dimensions() int {
	if m.dimension == 0 {
		return 4
	}
	return m.dimension
}

func (m *mockEmbeddingEngine) Name() string { return "mock-embedding-engine" }
