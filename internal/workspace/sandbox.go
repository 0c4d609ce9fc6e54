package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// DenyDirs lists directory names skipped when building a copy-on-write
// sandbox: VCS internals, dependency caches, and build artifacts.
var DenyDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".venv":        true,
}

// Sandbox is a disposable copy of a Workspace's tree, used to run build
// validation without ever mutating the original.
type Sandbox struct {
	dir string
}

// NewSandbox copies w's tree into a fresh temp directory, skipping
// DenyDirs entries, then applies changes to the copy only.
func NewSandbox(w *Workspace, changes []Change) (*Sandbox, error) {
	dir, err := os.MkdirTemp("", "forge-sandbox-*")
	if err != nil {
		return nil, fmt.Errorf("sandbox: create temp dir: %w", err)
	}

	if err := copyTree(w.Root(), dir); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("sandbox: copy tree: %w", err)
	}

	sandboxWS, err := New(dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	if err := sandboxWS.ApplyChanges(changes); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("sandbox: apply proposed changes: %w", err)
	}

	return &Sandbox{dir: dir}, nil
}

// Dir returns the sandbox's root directory, suitable as a command's
// working directory.
func (s *Sandbox) Dir() string {
	return s.dir
}

// Destroy removes the sandbox's temp directory.
func (s *Sandbox) Destroy() error {
	return os.RemoveAll(s.dir)
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if info.IsDir() {
			if DenyDirs[info.Name()] {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
