package chunk

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"forge/internal/embedding"
	"forge/internal/logging"
)

// schemaVersion is bumped whenever the on-disk chunk_embeddings schema
// changes shape; Open discards the whole table on mismatch.
const schemaVersion = 1

// CachedEmbedding is a persisted chunk embedding, valid only as long as
// its ContentHash matches the current file's content hash.
type CachedEmbedding struct {
	FilePath    string
	ChunkID     string // "{start}-{end}"
	StartLine   int
	EndLine     int
	Embedding   []float32
	Preview     string
	ContentHash string
	ModifiedAt  time.Time
}

// Store persists chunk embeddings in a local SQLite database. When built
// with the sqlite_vec cgo build tag, inserts are mirrored into a vec0
// virtual table for accelerated ANN search; otherwise FindSimilar falls
// back to brute-force cosine similarity, same as the semantic score
// Hybrid Retriever needs either way.
type Store struct {
	db        *sql.DB
	dimension int
	vecIndex  bool // true once the optional vec0 table is initialized
}

// Open opens (creating if needed) the embedding cache at path, validates
// its schema version, and prepares it to hold vectors of the given
// dimension.
func Open(path string, dimension int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create embedding cache directory: %w", err)
	}

	db, err := sql.Open(driverName(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	s := &Store{db: db, dimension: dimension}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	s.vecIndex = tryInitVecIndex(db, dimension)
	if s.vecIndex {
		logging.Chunk("embedding cache: sqlite-vec ANN index enabled (dimension=%d)", dimension)
	} else {
		logging.ChunkDebug("embedding cache: sqlite-vec unavailable, using brute-force cosine scan")
	}

	return s, nil
}

func (s *Store) migrate() error {
	var storedVersion int
	row := s.db.QueryRow("SELECT version FROM schema_meta LIMIT 1")
	err := row.Scan(&storedVersion)
	if err == sql.ErrNoRows || err == sql.ErrTxDone {
		storedVersion = 0
	} else if err != nil {
		// Table likely doesn't exist yet.
		storedVersion = 0
	}

	if storedVersion != schemaVersion {
		logging.Chunk("embedding cache schema version mismatch (have %d, want %d): discarding cache", storedVersion, schemaVersion)
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS chunk_embeddings; DROP TABLE IF EXISTS schema_meta;`); err != nil {
			return fmt.Errorf("failed to drop stale cache tables: %w", err)
		}
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_meta (version INTEGER NOT NULL);
		CREATE TABLE IF NOT EXISTS chunk_embeddings (
			file_path TEXT NOT NULL,
			chunk_id TEXT NOT NULL,
			start_line INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			embedding BLOB NOT NULL,
			preview TEXT,
			content_hash TEXT NOT NULL,
			modified_at INTEGER NOT NULL,
			PRIMARY KEY (file_path, chunk_id)
		);
		CREATE INDEX IF NOT EXISTS idx_chunk_embeddings_hash ON chunk_embeddings(content_hash);
	`)
	if err != nil {
		return fmt.Errorf("failed to create embedding cache tables: %w", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_meta").Scan(&count); err == nil && count == 0 {
		_, _ = s.db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reconcile loads every cached entry for the given files, discarding
// (and reporting for re-embedding) any whose content hash no longer
// matches currentHashes. Files present in currentHashes but absent from
// the cache are also reported as needing embedding.
func (s *Store) Reconcile(currentHashes map[string]string) (valid []CachedEmbedding, stale []string, err error) {
	rows, err := s.db.Query("SELECT file_path, chunk_id, start_line, end_line, embedding, preview, content_hash, modified_at FROM chunk_embeddings")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query embedding cache: %w", err)
	}
	defer rows.Close()

	seenFresh := make(map[string]bool)
	for rows.Next() {
		var e CachedEmbedding
		var blob []byte
		var modifiedUnix int64
		if err := rows.Scan(&e.FilePath, &e.ChunkID, &e.StartLine, &e.EndLine, &blob, &e.Preview, &e.ContentHash, &modifiedUnix); err != nil {
			logging.ChunkWarn("embedding cache: failed to scan row: %v", err)
			continue
		}
		e.Embedding = decodeFloat32Slice(blob)
		e.ModifiedAt = time.Unix(modifiedUnix, 0)

		if currentHashes[e.FilePath] == e.ContentHash {
			valid = append(valid, e)
			seenFresh[e.FilePath] = true
		}
	}

	for path := range currentHashes {
		if !seenFresh[path] {
			stale = append(stale, path)
		}
	}
	sort.Strings(stale)
	return valid, stale, nil
}

// Put persists (or replaces) a chunk's embedding, keyed by file path and
// chunk id. Writes are individually atomic at the SQLite row level;
// callers batch many Puts inside PutBatch for bulk ingestion.
func (s *Store) Put(e CachedEmbedding) error {
	return s.putTx(s.db, e)
}

// PutBatch persists many embeddings inside one transaction, so a
// mid-batch failure rolls back cleanly rather than leaving a half
// written generation on disk.
func (s *Store) PutBatch(entries []CachedEmbedding) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := s.putTx(tx, e); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to persist embedding for %s:%s: %w", e.FilePath, e.ChunkID, err)
		}
	}
	return tx.Commit()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) putTx(ex execer, e CachedEmbedding) error {
	blob := encodeFloat32Slice(e.Embedding)
	_, err := ex.Exec(
		`INSERT INTO chunk_embeddings (file_path, chunk_id, start_line, end_line, embedding, preview, content_hash, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(file_path, chunk_id) DO UPDATE SET
		   start_line=excluded.start_line, end_line=excluded.end_line, embedding=excluded.embedding,
		   preview=excluded.preview, content_hash=excluded.content_hash, modified_at=excluded.modified_at`,
		e.FilePath, e.ChunkID, e.StartLine, e.EndLine, blob, e.Preview, e.ContentHash, e.ModifiedAt.Unix(),
	)
	if err != nil {
		return err
	}
	if s.vecIndex {
		insertVecRow(s.db, e.FilePath, e.ChunkID, blob)
	}
	return nil
}

// NearestResult pairs a cached embedding with its similarity to a query.
type NearestResult struct {
	Embedding  CachedEmbedding
	Similarity float64
}

// FindSimilar returns the top-k cached embeddings by cosine similarity
// to query. Uses the vec0 ANN index when available, otherwise scans
// every cached embedding for this process (acceptable at the corpus
// sizes this tool targets; the Hybrid Retriever further filters by
// MIN_SIMILARITY_SCORE before anything is surfaced to the model).
func (s *Store) FindSimilar(ctx context.Context, query []float32, k int) ([]NearestResult, error) {
	if s.vecIndex {
		if results, err := s.findSimilarVec(query, k); err == nil {
			return results, nil
		} else {
			logging.ChunkWarn("vec0 ANN search failed, falling back to brute force: %v", err)
		}
	}
	return s.findSimilarBruteForce(ctx, query, k)
}

func (s *Store) findSimilarBruteForce(ctx context.Context, query []float32, k int) ([]NearestResult, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_path, chunk_id, start_line, end_line, embedding, preview, content_hash, modified_at FROM chunk_embeddings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []CachedEmbedding
	for rows.Next() {
		var e CachedEmbedding
		var blob []byte
		var modifiedUnix int64
		if err := rows.Scan(&e.FilePath, &e.ChunkID, &e.StartLine, &e.EndLine, &blob, &e.Preview, &e.ContentHash, &modifiedUnix); err != nil {
			continue
		}
		e.Embedding = decodeFloat32Slice(blob)
		e.ModifiedAt = time.Unix(modifiedUnix, 0)
		candidates = append(candidates, e)
	}

	corpus := make([][]float32, len(candidates))
	for i, c := range candidates {
		corpus[i] = c.Embedding
	}
	top, err := embedding.FindTopK(query, corpus, k)
	if err != nil {
		return nil, err
	}

	results := make([]NearestResult, 0, len(top))
	for _, t := range top {
		results = append(results, NearestResult{Embedding: candidates[t.Index], Similarity: t.Similarity})
	}
	return results, nil
}

func encodeFloat32Slice(vec []float32) []byte {
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, vec)
	return buf.Bytes()
}

func decodeFloat32Slice(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	_ = binary.Read(bytes.NewReader(blob), binary.LittleEndian, &vec)
	return vec
}
