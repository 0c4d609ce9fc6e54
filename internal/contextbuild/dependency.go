package contextbuild

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// importLinePattern matches a single quoted Go import, whether on its
// own line (`import "pkg"`) or inside a parenthesized import block
// (`"pkg"` or `alias "pkg"`).
var importLinePattern = regexp.MustCompile(`"([^"]+)"`)

// DependencyGraph resolves a file's declared imports to other files on
// disk, generalizing
// original_source/crates/merlin-context/src/pruning.rs's DependencyGraph
// from Rust's `crate::`/`mod` resolution to Go's module-path resolution:
// strip the module prefix, try `<root>/<path>.go`, then
// `<root>/<path>/` as a package directory.
type DependencyGraph struct {
	root       string
	modulePath string
	deps       map[string][]string
}

// NewDependencyGraph constructs a graph rooted at root, whose go.mod
// declares modulePath (e.g. "forge").
func NewDependencyGraph(root, modulePath string) *DependencyGraph {
	return &DependencyGraph{root: root, modulePath: modulePath, deps: make(map[string][]string)}
}

// AddFile extracts path's imports and records them against it.
func (g *DependencyGraph) AddFile(path, content string) {
	g.deps[path] = g.extractDependencies(content)
}

func (g *DependencyGraph) extractDependencies(content string) []string {
	var deps []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		match := importLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if dep := g.resolveImportPath(match[1]); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// resolveImportPath resolves an import string to a file or package
// directory under root, returning "" if it isn't part of this module
// (standard library and third-party imports are not expandable).
func (g *DependencyGraph) resolveImportPath(importPath string) string {
	rel := strings.TrimPrefix(importPath, g.modulePath+"/")
	if rel == importPath {
		return "" // not this module
	}

	candidateFile := filepath.Join(g.root, rel+".go")
	if fileExists(candidateFile) {
		return candidateFile
	}

	candidateDir := filepath.Join(g.root, rel)
	if dirExists(candidateDir) {
		return candidateDir
	}
	return ""
}

// GetAllDependencies returns every file reachable from path within
// maxDepth import hops.
func (g *DependencyGraph) GetAllDependencies(path string, maxDepth int) map[string]bool {
	visited := make(map[string]bool)
	type item struct {
		path  string
		depth int
	}
	stack := []item{{path, 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.depth > maxDepth || visited[cur.path] {
			continue
		}
		visited[cur.path] = true

		for _, dep := range g.deps[cur.path] {
			stack = append(stack, item{dep, cur.depth + 1})
		}
	}
	delete(visited, path)
	return visited
}

// ExpandWithDependencies returns the union of every file reachable from
// files within maxDepth hops.
func (g *DependencyGraph) ExpandWithDependencies(files []string, maxDepth int) map[string]bool {
	expanded := make(map[string]bool)
	for _, f := range files {
		for dep := range g.GetAllDependencies(f, maxDepth) {
			expanded[dep] = true
		}
	}
	return expanded
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
