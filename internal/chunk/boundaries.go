package chunk

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"forge/internal/logging"
)

// boundary marks where a top-level structural unit begins, along with a
// human name for the chunk's identifier.
type boundary struct {
	startLine int // 1-indexed
	name      string
}

// topLevelNodeTypes lists, per language, the node types considered
// structural units worth their own chunk boundary.
var topLevelNodeTypes = map[string]map[string]bool{
	"go": {
		"function_declaration": true, "method_declaration": true,
		"type_declaration": true, "import_declaration": true,
		"const_declaration": true, "var_declaration": true,
	},
	"python": {
		"function_definition": true, "class_definition": true,
		"import_statement": true, "import_from_statement": true,
	},
	"rust": {
		"function_item": true, "struct_item": true, "enum_item": true,
		"impl_item": true, "trait_item": true, "mod_item": true, "use_declaration": true,
	},
	"javascript": {
		"function_declaration": true, "class_declaration": true,
		"lexical_declaration": true, "import_statement": true, "export_statement": true,
	},
	"typescript": {
		"function_declaration": true, "class_declaration": true,
		"interface_declaration": true, "lexical_declaration": true,
		"import_statement": true, "export_statement": true,
	},
}

// languageForPath maps a file extension to a tree-sitter language name,
// or "" if the file isn't a structurally-parseable source language.
func languageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	case ".js", ".jsx", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	default:
		return ""
	}
}

func sitterLanguage(lang string) sitter.Language {
	switch lang {
	case "go":
		return golang.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "rust":
		return rust.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	default:
		return nil
	}
}

// declBoundaries parses content with the language's tree-sitter grammar
// and returns the start line of every top-level structural unit, in
// source order, deduplicated and without the implicit line 1 boundary
// (the caller always prepends that).
func declBoundaries(lang, path string, content []byte) []boundary {
	grammar := sitterLanguage(lang)
	if grammar == nil {
		return nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		logging.Get(logging.CategoryChunk).Warn("boundaries: tree-sitter parse failed for %s: %v", path, err)
		return nil
	}
	defer tree.Close()

	wanted := topLevelNodeTypes[lang]
	root := tree.RootNode()

	var bounds []boundary
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if !wanted[n.Type()] {
			continue
		}
		bounds = append(bounds, boundary{
			startLine: int(n.StartPoint().Row) + 1,
			name:      declName(n, content),
		})
	}
	return bounds
}

// declName extracts a best-effort identifier for a declaration node by
// looking for a child field commonly named "name", falling back to the
// node's own type.
func declName(n *sitter.Node, content []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(content)
	}
	return n.Type()
}
