package chunk

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"forge/internal/embedding"
	"forge/internal/logging"
)

// maxConcurrentReads bounds how many files are read and chunked at once,
// grounded on the original system's parallel_read_and_chunk pool size.
const maxConcurrentReads = 20

// embedBatchSize bounds how many chunks are sent to the embedding engine
// per call, grounded on the original system's embed_chunk_batches size.
const embedBatchSize = 50

// previewLength is how much of a chunk's content is retained as a
// preview string alongside its embedding, for quick display without
// re-reading the source file.
const previewLength = 200

// Pipeline reads, chunks, and embeds a set of files, writing surviving
// results into a Store. Embedding a file that fails to read is skipped
// with a warning rather than aborting the whole run; a failed embed
// batch drops only that batch's chunks, leaving every other batch's
// embeddings (and anything already cached) intact.
type Pipeline struct {
	Engine embedding.EmbeddingEngine
	Store  *Store
}

// fileChunks pairs a file's path with the chunks extracted from it.
type fileChunks struct {
	path   string
	hash   string
	chunks []Chunk
}

// Run embeds every file in paths whose content hash isn't already valid
// in the store (per Store.Reconcile), then persists the new embeddings.
// It returns the number of chunks newly embedded.
func (p *Pipeline) Run(ctx context.Context, paths []string) (int, error) {
	hashes, contents, err := readAndHash(paths)
	if err != nil {
		return 0, err
	}

	_, stale, err := p.Store.Reconcile(hashes)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		logging.Chunk("embedding pipeline: all %d files already cached, nothing to embed", len(paths))
		return 0, nil
	}
	logging.Chunk("embedding pipeline: %d/%d files need (re)embedding", len(stale), len(paths))

	allChunks, err := parallelChunk(stale, contents)
	if err != nil {
		return 0, err
	}

	return p.embedAndStore(ctx, allChunks)
}

// readAndHash reads every file and returns its content hash, skipping
// (with a warning) any file that can't be read.
func readAndHash(paths []string) (map[string]string, map[string]string, error) {
	hashes := make(map[string]string, len(paths))
	contents := make(map[string]string, len(paths))
	var mu sync.Mutex

	sem := make(chan struct{}, maxConcurrentReads)
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			data, err := os.ReadFile(path)
			if err != nil {
				logging.ChunkWarn("embedding pipeline: skipping unreadable file %s: %v", path, err)
				return
			}
			content := string(data)
			mu.Lock()
			hashes[path] = HashContent(content)
			contents[path] = content
			mu.Unlock()
		}(path)
	}
	wg.Wait()
	return hashes, contents, nil
}

// parallelChunk chunks every stale file concurrently, bounded by
// maxConcurrentReads since chunking a large file with tree-sitter is not
// free either.
func parallelChunk(stale []string, contents map[string]string) ([]fileChunks, error) {
	results := make([]fileChunks, len(stale))
	g := &errgroup.Group{}
	g.SetLimit(maxConcurrentReads)

	for i, path := range stale {
		i, path := i, path
		g.Go(func() error {
			content, ok := contents[path]
			if !ok {
				return nil // unreadable, already warned in readAndHash
			}
			results[i] = fileChunks{
				path:   path,
				hash:   HashContent(content),
				chunks: File(path, content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// embedAndStore flattens every file's chunks into fixed-size batches,
// embeds each batch, and persists the results. A batch whose embed call
// fails is logged and dropped; the files it touched remain stale and
// will be retried on the next Run.
func (p *Pipeline) embedAndStore(ctx context.Context, files []fileChunks) (int, error) {
	type pending struct {
		path    string
		hash    string
		chunk   Chunk
		chunkID string
	}

	var queue []pending
	for _, f := range files {
		for _, c := range f.chunks {
			queue = append(queue, pending{
				path:    f.path,
				hash:    f.hash,
				chunk:   c,
				chunkID: chunkIDFor(c),
			})
		}
	}

	total := 0
	for start := 0; start < len(queue); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(queue) {
			end = len(queue)
		}
		batch := queue[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.chunk.Content
		}

		vectors, err := p.Engine.EmbedBatch(ctx, texts)
		if err != nil {
			logging.ChunkWarn("embedding pipeline: batch %d-%d failed, leaving %d chunks unembedded: %v", start, end, len(batch), err)
			continue
		}

		entries := make([]CachedEmbedding, 0, len(batch))
		for i, p := range batch {
			entries = append(entries, CachedEmbedding{
				FilePath:    p.path,
				ChunkID:     p.chunkID,
				StartLine:   p.chunk.StartLine,
				EndLine:     p.chunk.EndLine,
				Embedding:   vectors[i],
				Preview:     preview(p.chunk.Content),
				ContentHash: p.hash,
			})
		}
		if err := p.Store.PutBatch(entries); err != nil {
			logging.ChunkWarn("embedding pipeline: failed to persist batch %d-%d: %v", start, end, err)
			continue
		}
		total += len(entries)
	}

	logging.Chunk("embedding pipeline: embedded and stored %d chunks across %d files", total, len(files))
	return total, nil
}

func chunkIDFor(c Chunk) string {
	return fmt.Sprintf("%d-%d", c.StartLine, c.EndLine)
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength]
}
