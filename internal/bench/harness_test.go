package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"forge/internal/chunk"
	"forge/internal/retrieval"
)

type fakeEngine struct {
	vectors map[string][]float32
	dim     int
}

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, f.dim), nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return f.dim }
func (f *fakeEngine) Name() string    { return "fake" }

// setupRetrieverWithTwoFiles seeds one file that matches the query vector
// and one that doesn't (a matching "add" file and an unrelated "mul" file).
func setupRetrieverWithTwoFiles(t *testing.T) (*retrieval.Retriever, string, string) {
	t.Helper()
	dir := t.TempDir()

	mainPath := filepath.Join(dir, "main.go")
	mainContent := "package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n"
	require.NoError(t, os.WriteFile(mainPath, []byte(mainContent), 0o644))

	unrelatedPath := filepath.Join(dir, "unrelated.go")
	unrelatedContent := "package main\n\nfunc mul(a, b int) int {\n\treturn a * b\n}\n"
	require.NoError(t, os.WriteFile(unrelatedPath, []byte(unrelatedContent), 0o644))

	store, err := chunk.Open(filepath.Join(dir, "emb.db"), 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	matchVec := []float32{1, 0, 0, 0}
	otherVec := []float32{0, 1, 0, 0}

	require.NoError(t, store.Put(chunk.CachedEmbedding{
		FilePath: mainPath, ChunkID: "1-5", StartLine: 1, EndLine: 5,
		Embedding: matchVec, Preview: mainContent, ContentHash: chunk.HashContent(mainContent),
	}))
	require.NoError(t, store.Put(chunk.CachedEmbedding{
		FilePath: unrelatedPath, ChunkID: "1-5", StartLine: 1, EndLine: 5,
		Embedding: otherVec, Preview: unrelatedContent, ContentHash: chunk.HashContent(unrelatedContent),
	}))

	engine := &fakeEngine{dim: 4, vectors: map[string][]float32{"explain the add function": matchVec}}
	cfg := retrieval.DefaultConfig()
	cfg.MinChunkTokens = 0
	cfg.LowScoreChunkTokens = 0

	return retrieval.New(store, engine, cfg), mainPath, unrelatedPath
}

func TestRun_ScoresPrecisionAt1AndRecall(t *testing.T) {
	r, mainPath, unrelatedPath := setupRetrieverWithTwoFiles(t)

	tc := &TestCase{
		Name:        "explain_add",
		Query:       "explain the add function",
		ProjectRoot: ".",
		Expected:    []ExpectedFile{{Path: mainPath, Priority: PriorityCritical}},
		Excluded:    []ExcludedFile{{Path: unrelatedPath}},
	}

	result, err := Run(context.Background(), r, tc, 5)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.PrecisionAt1)
	assert.Equal(t, 1.0, result.Recall)
	assert.Empty(t, result.ExcludedViolations)
	assert.True(t, result.Passed())
}

func TestRun_FlagsMissingExpectedFile(t *testing.T) {
	r, _, _ := setupRetrieverWithTwoFiles(t)

	tc := &TestCase{
		Name:        "never_surfaced",
		Query:       "explain the add function",
		ProjectRoot: ".",
		Expected:    []ExpectedFile{{Path: "nonexistent.go", Priority: PriorityHigh}},
	}

	result, err := Run(context.Background(), r, tc, 5)
	require.NoError(t, err)

	assert.False(t, result.Passed())
	assert.Len(t, result.ExpectedMiss, 1)
}

func TestLoadTestCase_ParsesYAMLFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")

	doc := TestCase{
		Name:        "sample",
		Description: "a sample fixture",
		Query:       "explain the add function",
		ProjectRoot: "/repo",
		Expected:    []ExpectedFile{{Path: "src/main.rs", Priority: PriorityCritical, Reason: "defines add"}},
		Excluded:    []ExcludedFile{{Path: "src/unrelated.rs", Reason: "unrelated function"}},
	}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadTestCase(path)
	require.NoError(t, err)
	if diff := cmp.Diff(&doc, got); diff != "" {
		t.Errorf("round-tripped test case differs (-want +got):\n%s", diff)
	}
}

func TestLoadTestCase_RejectsMissingQuery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nproject_root: .\n"), 0o644))

	_, err := LoadTestCase(path)
	assert.Error(t, err)
}
