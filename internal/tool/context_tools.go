package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// RequestContextTool lets the model pull additional files into its
// context mid-task via a glob pattern, resolved against the workspace
// root (§4.C's explicit-reference path, reused rather than duplicated).
type RequestContextTool struct {
	root string
}

func NewRequestContextTool(root string) *RequestContextTool { return &RequestContextTool{root: root} }

func (t *RequestContextTool) Name() string { return "request_context" }
func (t *RequestContextTool) Description() string {
	return "Request additional files matching a glob pattern be added to context."
}
func (t *RequestContextTool) Signature() string {
	return "request_context(glob string) (paths []string, error)"
}

func (t *RequestContextTool) Execute(input string) Output {
	var req struct{ Glob string }
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("request_context: invalid input: %v", err)}
	}
	matches, err := filepath.Glob(filepath.Join(t.root, req.Glob))
	if err != nil {
		return Output{Err: err.Error()}
	}
	rel := make([]string, 0, len(matches))
	for _, m := range matches {
		r, err := filepath.Rel(t.root, m)
		if err != nil {
			continue
		}
		rel = append(rel, r)
	}
	data, _ := json.Marshal(rel)
	return Output{Result: string(data)}
}

// ListSymbolsTool delegates to a language-capability provider (the
// tree-sitter grammars already wired for chunking) to list a file's
// top-level declarations by name.
type ListSymbolsTool struct {
	ws fileStore
}

func NewListSymbolsTool(ws fileStore) *ListSymbolsTool { return &ListSymbolsTool{ws: ws} }

func (t *ListSymbolsTool) Name() string        { return "list_symbols" }
func (t *ListSymbolsTool) Description() string { return "List a file's top-level declarations." }
func (t *ListSymbolsTool) Signature() string   { return "list_symbols(path string) (symbols []string, error)" }

func (t *ListSymbolsTool) Execute(input string) Output {
	var req struct{ Path string }
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return Output{Err: fmt.Sprintf("list_symbols: invalid input: %v", err)}
	}
	content, err := t.ws.ReadFile(req.Path)
	if err != nil {
		return Output{Err: err.Error()}
	}

	lang := grammarForExt(filepath.Ext(req.Path))
	if lang == nil {
		return Output{Result: "[]"}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if err != nil {
		return Output{Err: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	symbols := make([]string, 0, root.NamedChildCount())
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if name := n.ChildByFieldName("name"); name != nil {
			symbols = append(symbols, name.Content([]byte(content)))
		}
	}

	data, _ := json.Marshal(symbols)
	return Output{Result: string(data)}
}

func grammarForExt(ext string) sitter.Language {
	switch strings.ToLower(ext) {
	case ".go":
		return golang.GetLanguage()
	case ".py":
		return python.GetLanguage()
	case ".rs":
		return rust.GetLanguage()
	case ".js", ".jsx", ".mjs":
		return javascript.GetLanguage()
	case ".ts", ".tsx":
		return typescript.GetLanguage()
	default:
		return nil
	}
}
