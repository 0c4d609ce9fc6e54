//go:build sqlite_vec && cgo

package chunk

import (
	"database/sql"
	"fmt"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"forge/internal/logging"
)

func init() {
	vec.Auto()
}

// driverName switches to the cgo mattn/go-sqlite3 driver in this build,
// since sqlite-vec's vec0 virtual table only registers against it; the
// modernc.org/sqlite driver used elsewhere cannot load C extensions.
func driverName() string { return "sqlite3" }

// tryInitVecIndex creates the vec0 virtual table backing accelerated ANN
// search. Only reachable when the binary is built with -tags sqlite_vec
// against a cgo-capable sqlite3 driver; the default build uses
// vecindex_stub.go instead.
func tryInitVecIndex(db *sql.DB, dimension int) bool {
	_, err := db.Exec(fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunk_embeddings USING vec0(embedding float[%d], file_path TEXT, chunk_id TEXT)`,
		dimension,
	))
	if err != nil {
		logging.ChunkWarn("vec0 index creation failed: %v", err)
		return false
	}
	return true
}

func insertVecRow(db *sql.DB, filePath, chunkID string, embedding []byte) {
	_, err := db.Exec(
		`INSERT OR REPLACE INTO vec_chunk_embeddings (rowid, embedding, file_path, chunk_id)
		 SELECT rowid, ?, ?, ? FROM chunk_embeddings WHERE file_path = ? AND chunk_id = ?`,
		embedding, filePath, chunkID, filePath, chunkID,
	)
	if err != nil {
		logging.ChunkWarn("vec0 index insert failed for %s:%s: %v", filePath, chunkID, err)
	}
}

func (s *Store) findSimilarVec(query []float32, k int) ([]NearestResult, error) {
	blob := encodeFloat32Slice(query)
	rows, err := s.db.Query(
		`SELECT c.file_path, c.chunk_id, c.start_line, c.end_line, c.embedding, c.preview, c.content_hash, c.modified_at,
		        vec_distance_cosine(v.embedding, ?) AS dist
		 FROM vec_chunk_embeddings v
		 JOIN chunk_embeddings c ON c.file_path = v.file_path AND c.chunk_id = v.chunk_id
		 ORDER BY dist ASC LIMIT ?`,
		blob, k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []NearestResult
	for rows.Next() {
		var e CachedEmbedding
		var embBlob []byte
		var modifiedUnix int64
		var dist float64
		if err := rows.Scan(&e.FilePath, &e.ChunkID, &e.StartLine, &e.EndLine, &embBlob, &e.Preview, &e.ContentHash, &modifiedUnix, &dist); err != nil {
			continue
		}
		e.Embedding = decodeFloat32Slice(embBlob)
		results = append(results, NearestResult{Embedding: e, Similarity: 1 - dist})
	}
	return results, nil
}
