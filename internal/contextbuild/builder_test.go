package contextbuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_IncludesExplicitFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	b := NewBuilder(nil, root, "example", "system prompt", 10000)
	out, err := b.Build(context.Background(), "look at main.go", []string{path}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out.Files)
	assert.Equal(t, path, out.Files[0].Path)
}

func TestBuilder_Build_EmitsSystemPromptAndHistory(t *testing.T) {
	b := NewBuilder(nil, t.TempDir(), "example", "base prompt", 10000)
	history := []ConversationMessage{{Role: "user", Content: "hello"}}
	out, err := b.Build(context.Background(), "query", nil, history)
	require.NoError(t, err)
	assert.Contains(t, out.SystemPrompt, "base prompt")
	assert.Contains(t, out.SystemPrompt, "hello")
}

func TestBuilder_Build_TruncatesOversizedFileToBudget(t *testing.T) {
	root := t.TempDir()
	bigContent := ""
	for i := 0; i < 2000; i++ {
		bigContent += "x = 1\n"
	}
	critical := filepath.Join(root, "critical.go")
	require.NoError(t, os.WriteFile(critical, []byte(bigContent), 0o644))

	b := NewBuilder(nil, root, "example", "prompt", 200)
	out, err := b.Build(context.Background(), "query", []string{critical}, nil)
	require.NoError(t, err)
	require.Len(t, out.Files, 1, "an explicitly referenced file must survive even under a tight budget")
	assert.Equal(t, critical, out.Files[0].Path)
	assert.Less(t, len(out.Files[0].Content), len(bigContent), "content should be truncated to fit the token allocation")
}

func TestTruncateToTokens_CutsAtLineBoundary(t *testing.T) {
	content := "line one\nline two\nline three\n"
	truncated := truncateToTokens(content, 1)
	assert.LessOrEqual(t, len(truncated), len(content))
	assert.Equal(t, "line one\n", truncated)
}
