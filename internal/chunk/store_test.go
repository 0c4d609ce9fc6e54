package chunk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, dimension int) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embeddings.db")
	s, err := Open(path, dimension)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutAndReconcile(t *testing.T) {
	s := openTestStore(t, 4)

	entry := CachedEmbedding{
		FilePath:    "a.go",
		ChunkID:     "1-10",
		StartLine:   1,
		EndLine:     10,
		Embedding:   []float32{0.1, 0.2, 0.3, 0.4},
		Preview:     "package main",
		ContentHash: "hash-a",
	}
	require.NoError(t, s.Put(entry))

	valid, stale, err := s.Reconcile(map[string]string{"a.go": "hash-a"})
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Empty(t, stale)
	assert.Equal(t, entry.ChunkID, valid[0].ChunkID)
	assert.Equal(t, entry.Embedding, valid[0].Embedding)
}

func TestStore_Reconcile_StaleOnHashMismatch(t *testing.T) {
	s := openTestStore(t, 4)

	require.NoError(t, s.Put(CachedEmbedding{
		FilePath: "a.go", ChunkID: "1-10", ContentHash: "old-hash",
		Embedding: []float32{0.1, 0.2, 0.3, 0.4},
	}))

	valid, stale, err := s.Reconcile(map[string]string{"a.go": "new-hash"})
	require.NoError(t, err)
	assert.Empty(t, valid)
	assert.Equal(t, []string{"a.go"}, stale)
}

func TestStore_Reconcile_StaleOnNewFile(t *testing.T) {
	s := openTestStore(t, 4)

	valid, stale, err := s.Reconcile(map[string]string{"new.go": "hash-x"})
	require.NoError(t, err)
	assert.Empty(t, valid)
	assert.Equal(t, []string{"new.go"}, stale)
}

func TestStore_PutBatch(t *testing.T) {
	s := openTestStore(t, 4)

	entries := []CachedEmbedding{
		{FilePath: "a.go", ChunkID: "1-5", ContentHash: "h1", Embedding: []float32{1, 0, 0, 0}},
		{FilePath: "a.go", ChunkID: "6-10", ContentHash: "h1", Embedding: []float32{0, 1, 0, 0}},
	}
	require.NoError(t, s.PutBatch(entries))

	valid, _, err := s.Reconcile(map[string]string{"a.go": "h1"})
	require.NoError(t, err)
	assert.Len(t, valid, 2)
}

func TestStore_FindSimilar_BruteForceFallback(t *testing.T) {
	s := openTestStore(t, 4)

	require.NoError(t, s.PutBatch([]CachedEmbedding{
		{FilePath: "a.go", ChunkID: "1-5", ContentHash: "h1", Embedding: []float32{1, 0, 0, 0}},
		{FilePath: "b.go", ChunkID: "1-5", ContentHash: "h2", Embedding: []float32{0, 1, 0, 0}},
	}))

	results, err := s.FindSimilar(context.Background(), []float32{1, 0, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go", results[0].Embedding.FilePath)
}

func TestStore_SchemaVersionMismatchDiscardsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")
	s, err := Open(path, 4)
	require.NoError(t, err)
	require.NoError(t, s.Put(CachedEmbedding{FilePath: "a.go", ChunkID: "1-5", ContentHash: "h1", Embedding: []float32{1, 0, 0, 0}}))
	require.NoError(t, s.Close())

	// Simulate a schema bump by writing a stale version row directly.
	reopened, err := Open(path, 4)
	require.NoError(t, err)
	_, err = reopened.db.Exec("UPDATE schema_meta SET version = -1")
	require.NoError(t, err)
	require.NoError(t, reopened.Close())

	final, err := Open(path, 4)
	require.NoError(t, err)
	defer final.Close()

	valid, _, err := final.Reconcile(map[string]string{"a.go": "h1"})
	require.NoError(t, err)
	assert.Empty(t, valid, "schema version mismatch must discard the whole cache")
}
