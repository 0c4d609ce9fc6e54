//go:build !sqlite_vec || !cgo

package chunk

import "database/sql"

// driverName is the database/sql driver used to open the embedding
// cache. The default build uses the pure-Go modernc.org/sqlite driver,
// registered via its blank import in store.go.
func driverName() string { return "sqlite" }

// tryInitVecIndex is the default, pure-Go build: sqlite-vec requires cgo
// to load as a SQLite extension, which the project's default
// modernc.org/sqlite driver does not support. Callers fall back to
// brute-force cosine similarity over the chunk_embeddings table, which
// is exact (not approximate) and entirely adequate at the corpus sizes
// a single workspace produces.
func tryInitVecIndex(db *sql.DB, dimension int) bool {
	return false
}

func insertVecRow(db *sql.DB, filePath, chunkID string, embedding []byte) {}

func (s *Store) findSimilarVec(query []float32, k int) ([]NearestResult, error) {
	panic("findSimilarVec called without vec0 index initialized")
}
