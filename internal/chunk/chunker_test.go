package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_EmptyContentReturnsNil(t *testing.T) {
	assert.Nil(t, File("empty.go", ""))
}

func TestFile_SmallFileIsOneWholeFileChunk(t *testing.T) {
	content := "package main\n\nfunc main() {}\n"
	chunks := File("small.go", content)
	require.Len(t, chunks, 1)
	assert.Equal(t, "whole_file", chunks[0].Identifier)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, content, chunks[0].Content)
}

func TestFile_Deterministic(t *testing.T) {
	content := strings.Repeat("func doSomething() {\n\treturn\n}\n\n", 40)
	first := File("repeated.go", content)
	second := File("repeated.go", content)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestFile_ChunkInvariants(t *testing.T) {
	content := strings.Repeat("func doSomething() {\n\treturn\n}\n\n", 40)
	chunks := File("repeated.go", content)
	require.NotEmpty(t, chunks)

	fileHash := HashContent(content)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, c.StartLine, 1)
		assert.LessOrEqual(t, c.StartLine, c.EndLine)
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
		assert.Equal(t, fileHash, c.ContentHash, "chunk content hash must be the file hash, not the chunk's own hash")
	}
}

func TestFile_OversizedSegmentIsSplit(t *testing.T) {
	var b strings.Builder
	b.WriteString("func giant() {\n")
	for i := 0; i < 400; i++ {
		b.WriteString("\tdoWork()\n")
	}
	b.WriteString("}\n")

	chunks := File("giant.go", b.String())
	require.Greater(t, len(chunks), 1, "a function far exceeding MaxChunkTokens must be split across multiple chunks")
	for _, c := range chunks {
		assert.LessOrEqual(t, EstimateTokens(c.Content), MaxChunkTokens+EstimateTokens("\tdoWork()\n"))
	}
}

func TestFile_NonCodeUsesParagraphBoundaries(t *testing.T) {
	content := strings.Repeat("# Heading\n\nSome paragraph text that goes on for a while to pad out tokens.\n\n", 30)
	chunks := File("notes.md", content)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
	}
}
