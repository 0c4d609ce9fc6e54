package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_RejectsParentTraversal(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)
	_, err = w.Resolve("../outside.go")
	assert.Error(t, err)
}

func TestResolve_RejectsAbsolutePathOutsideRoot(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)
	_, err = w.Resolve("/etc/passwd")
	assert.Error(t, err)
}

func TestResolve_AcceptsNestedRelativePath(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)
	abs, err := w.Resolve("pkg/sub/file.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Root(), "pkg", "sub", "file.go"), abs)
}

func TestApplyChanges_CreateThenReadRoundTrip(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	err = w.ApplyChanges([]Change{{Kind: ChangeCreate, Path: "a/b.go", Content: "package b\n"}})
	require.NoError(t, err)

	content, err := w.ReadFile("a/b.go")
	require.NoError(t, err)
	assert.Equal(t, "package b\n", content)
	assert.True(t, w.Exists("a/b.go"))
}

func TestApplyChanges_DeleteMissingFileIsTolerated(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)
	err = w.ApplyChanges([]Change{{Kind: ChangeDelete, Path: "never-existed.go"}})
	assert.NoError(t, err)
}

func TestApplyChanges_InvalidPathAbortsEntireBatch(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	err = w.ApplyChanges([]Change{
		{Kind: ChangeCreate, Path: "good.go", Content: "ok"},
		{Kind: ChangeCreate, Path: "../escape.go", Content: "bad"},
	})
	require.Error(t, err)
	assert.False(t, w.Exists("good.go"))
	_, statErr := os.Stat(filepath.Join(w.Root(), "good.go"))
	assert.True(t, os.IsNotExist(statErr), "no partial write should have happened")
}

func TestNewSandbox_SkipsDenyDirsAndLeavesOriginalUntouched(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "junk.js"), []byte("x"), 0o644))

	w, err := New(root)
	require.NoError(t, err)

	sb, err := NewSandbox(w, []Change{{Kind: ChangeCreate, Path: "new.go", Content: "package main"}})
	require.NoError(t, err)
	defer sb.Destroy()

	_, err = os.Stat(filepath.Join(sb.Dir(), "main.go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(sb.Dir(), "node_modules"))
	assert.True(t, os.IsNotExist(err), "deny-listed directory should not be copied")
	_, err = os.Stat(filepath.Join(sb.Dir(), "new.go"))
	assert.NoError(t, err, "proposed change should exist in the sandbox copy")

	_, err = os.Stat(filepath.Join(root, "new.go"))
	assert.True(t, os.IsNotExist(err), "original workspace must never be mutated")
}
