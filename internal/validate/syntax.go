package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// codeBlockPattern extracts fenced code blocks, optionally language-tagged,
// from a model response.
var codeBlockPattern = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)\n(.*?)```")

// SyntaxStage delegates to the capability provider (a tree-sitter
// grammar) for each fenced code block's declared language. A language
// with no registered grammar is skipped with a neutral score rather
// than failing the stage.
type SyntaxStage struct {
	fatal bool
}

// NewSyntaxStage builds the Syntax stage.
func NewSyntaxStage(fatal bool) *SyntaxStage {
	return &SyntaxStage{fatal: fatal}
}

func (s *SyntaxStage) Name() string    { return "syntax" }
func (s *SyntaxStage) Weight() float64 { return 1.0 }
func (s *SyntaxStage) Fatal() bool     { return s.fatal }

func (s *SyntaxStage) Validate(_ context.Context, response string, _ []string) (StageResult, error) {
	start := time.Now()
	blocks := codeBlockPattern.FindAllStringSubmatch(response, -1)
	if len(blocks) == 0 {
		return StageResult{
			Stage: s.Name(), Passed: true, Score: 0.5,
			Details: "no fenced code blocks to check", Severity: SeveritySoft,
			DurationMS: time.Since(start).Milliseconds(),
		}, nil
	}

	checked, errored := 0, 0
	var details []string
	for _, b := range blocks {
		lang := grammarForTag(b[1])
		if lang == nil {
			continue
		}
		checked++
		if hasSyntaxError(lang, []byte(b[2])) {
			errored++
			details = append(details, fmt.Sprintf("block tagged %q has a syntax error", b[1]))
		}
	}

	if checked == 0 {
		return StageResult{
			Stage: s.Name(), Passed: true, Score: 0.5,
			Details: "no code blocks in a recognized language", Severity: SeveritySoft,
			DurationMS: time.Since(start).Milliseconds(),
		}, nil
	}

	score := float64(checked-errored) / float64(checked)
	passed := errored == 0

	return StageResult{
		Stage:      s.Name(),
		Passed:     passed,
		Score:      score,
		Details:    fmt.Sprintf("checked %d blocks, %d syntax errors: %s", checked, errored, strings.Join(details, "; ")),
		Severity:   severityFor(passed),
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}

func severityFor(passed bool) Severity {
	if passed {
		return SeveritySoft
	}
	return SeverityHard
}

// grammarForTag maps a fenced block's language tag (or a bare file
// extension) to a tree-sitter grammar, or nil if none is registered.
func grammarForTag(tag string) sitter.Language {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext("."+tag), ".")) {
	case "go", "golang":
		return golang.GetLanguage()
	case "py", "python":
		return python.GetLanguage()
	case "rs", "rust":
		return rust.GetLanguage()
	case "js", "javascript", "jsx":
		return javascript.GetLanguage()
	case "ts", "typescript", "tsx":
		return typescript.GetLanguage()
	default:
		return nil
	}
}

// hasSyntaxError parses content and reports whether the resulting tree
// contains any ERROR node.
func hasSyntaxError(lang sitter.Language, content []byte) bool {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return true
	}
	defer tree.Close()

	return tree.RootNode().HasError()
}
