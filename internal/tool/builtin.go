package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"forge/internal/diff"
	"forge/internal/workspace"
)

// fileStore is the minimal surface the built-in file tools need; it is
// satisfied by *workspace.Workspace.
type fileStore interface {
	ReadFile(path string) (string, error)
	ApplyChanges(changes []workspace.Change) error
}

// ReadFileTool reads one file relative to the workspace root.
type ReadFileTool struct {
	ws fileStore
}

func NewReadFileTool(ws fileStore) *ReadFileTool { return &ReadFileTool{ws: ws} }

func (t *ReadFileTool) Name() string        { return "read_file" }
func (t *ReadFileTool) Description() string { return "Read a file's contents by path." }
func (t *ReadFileTool) Signature() string   { return "read_file(path string) (content string, error)" }

func (t *ReadFileTool) Execute(input string) Output {
	var req struct{ Path string }
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("read_file: invalid input: %v", err)}
	}
	content, err := t.ws.ReadFile(req.Path)
	if err != nil {
		return Output{Err: err.Error()}
	}
	return Output{Result: content}
}

// WriteFileTool creates or overwrites one file.
type WriteFileTool struct {
	ws fileStore
}

func NewWriteFileTool(ws fileStore) *WriteFileTool { return &WriteFileTool{ws: ws} }

func (t *WriteFileTool) Name() string        { return "write_file" }
func (t *WriteFileTool) Description() string { return "Create or overwrite a file with the given content." }
func (t *WriteFileTool) Signature() string   { return "write_file(path string, content string) (ok bool, error)" }

func (t *WriteFileTool) Execute(input string) Output {
	var req struct {
		Path    string
		Content string
	}
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("write_file: invalid input: %v", err)}
	}

	before, existed := t.ws.ReadFile(req.Path)

	if err := t.ws.ApplyChanges([]workspace.Change{{Kind: workspace.ChangeCreate, Path: req.Path, Content: req.Content}}); err != nil {
		return Output{Err: err.Error()}
	}

	var rendered string
	if existed == nil {
		rendered = diff.ComputeDiff(req.Path, req.Path, before, req.Content).Render()
	}
	return Output{Result: "ok", Diff: rendered}
}

// DeleteFileTool removes one file.
type DeleteFileTool struct {
	ws fileStore
}

func NewDeleteFileTool(ws fileStore) *DeleteFileTool { return &DeleteFileTool{ws: ws} }

func (t *DeleteFileTool) Name() string        { return "delete_file" }
func (t *DeleteFileTool) Description() string { return "Delete a file by path." }
func (t *DeleteFileTool) Signature() string   { return "delete_file(path string) (ok bool, error)" }

func (t *DeleteFileTool) Execute(input string) Output {
	var req struct{ Path string }
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("delete_file: invalid input: %v", err)}
	}
	if err := t.ws.ApplyChanges([]workspace.Change{{Kind: workspace.ChangeDelete, Path: req.Path}}); err != nil {
		return Output{Err: err.Error()}
	}
	return Output{Result: "ok"}
}

// EditFileTool performs a find-and-replace against one file's content.
type EditFileTool struct {
	ws fileStore
}

func NewEditFileTool(ws fileStore) *EditFileTool { return &EditFileTool{ws: ws} }

func (t *EditFileTool) Name() string { return "edit_file" }
func (t *EditFileTool) Description() string {
	return "Find-and-replace within a file; set replace_all to replace every occurrence."
}
func (t *EditFileTool) Signature() string {
	return "edit_file(path string, find string, replacement string, replace_all bool) (ok bool, error)"
}

func (t *EditFileTool) Execute(input string) Output {
	var req struct {
		Path        string
		Find        string
		Replacement string
		ReplaceAll  bool
	}
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("edit_file: invalid input: %v", err)}
	}
	content, err := t.ws.ReadFile(req.Path)
	if err != nil {
		return Output{Err: err.Error()}
	}
	if !strings.Contains(content, req.Find) {
		return Output{Err: fmt.Sprintf("edit_file: %q not found in %s", req.Find, req.Path)}
	}

	var updated string
	if req.ReplaceAll {
		updated = strings.ReplaceAll(content, req.Find, req.Replacement)
	} else {
		updated = strings.Replace(content, req.Find, req.Replacement, 1)
	}

	if err := t.ws.ApplyChanges([]workspace.Change{{Kind: workspace.ChangeModify, Path: req.Path, Content: updated}}); err != nil {
		return Output{Err: err.Error()}
	}

	rendered := diff.ComputeDiff(req.Path, req.Path, content, updated).Render()
	return Output{Result: "ok", Diff: rendered}
}

// ShellTool runs a constrained, allow-listed shell command with a
// timeout, restricted to a fixed binary allow-list since scripts here
// are model-emitted, not operator-authored.
type ShellTool struct {
	allowed map[string]bool
	timeout time.Duration
	dir     string
}

// NewShellTool builds the constrained shell tool, rooted at dir.
func NewShellTool(dir string, allowedBinaries []string, timeout time.Duration) *ShellTool {
	allowed := make(map[string]bool, len(allowedBinaries))
	for _, b := range allowedBinaries {
		allowed[b] = true
	}
	return &ShellTool{allowed: allowed, timeout: timeout, dir: dir}
}

func (t *ShellTool) Name() string        { return "run_shell" }
func (t *ShellTool) Description() string { return "Run an allow-listed shell command, e.g. `go test ./...`." }
func (t *ShellTool) Signature() string   { return "run_shell(command string, args []string) (output string, error)" }

func (t *ShellTool) Execute(input string) Output {
	var req struct {
		Command string
		Args    []string
	}
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("run_shell: invalid input: %v", err)}
	}
	if !t.allowed[req.Command] {
		return Output{Err: fmt.Sprintf("run_shell: %q is not on the allow-list", req.Command)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	cmd.Dir = t.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Output{Result: string(out), Err: err.Error()}
	}
	return Output{Result: string(out)}
}
