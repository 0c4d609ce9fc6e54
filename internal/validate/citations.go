package validate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// citationPattern matches `path/to/file.ext:line` or `path/to/file.ext:line1-line2`,
// ported from original_source's CITATION_REGEX.
var citationPattern = regexp.MustCompile(`([a-zA-Z0-9_/\\.-]+\.[a-zA-Z0-9]+):(\d+)(?:-(\d+))?`)

// Citation is one parsed `file:line[-line]` reference.
type Citation struct {
	FilePath  string
	StartLine int
	EndLine   int // 0 means unset
}

// ExtractCitations finds every citation in text, in order of appearance.
func ExtractCitations(text string) []Citation {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	citations := make([]Citation, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		end := 0
		if m[3] != "" {
			end, _ = strconv.Atoi(m[3])
		}
		citations = append(citations, Citation{FilePath: m[1], StartLine: start, EndLine: end})
	}
	return citations
}

// CitationsStage cross-checks a response's citations against the files
// actually present in the Context. Unenforced mismatches are a Soft
// score penalty; enforced mismatches fail the stage as Hard.
type CitationsStage struct {
	MinCitations int
	Enforce      bool
	fatal        bool
}

// NewCitationsStage builds the Citations stage. fatal controls whether
// the orchestrator treats a Hard failure here as a task failure.
func NewCitationsStage(enforce bool, fatal bool) *CitationsStage {
	return &CitationsStage{MinCitations: 1, Enforce: enforce, fatal: fatal}
}

func (s *CitationsStage) Name() string  { return "citations" }
func (s *CitationsStage) Weight() float64 { return 1.0 }
func (s *CitationsStage) Fatal() bool   { return s.fatal }

func (s *CitationsStage) Validate(_ context.Context, response string, contextFiles []string) (StageResult, error) {
	start := time.Now()
	known := make(map[string]bool, len(contextFiles))
	for _, f := range contextFiles {
		known[f] = true
	}

	citations := ExtractCitations(response)
	invalid := 0
	for _, c := range citations {
		if !isValidCitation(c, known) {
			invalid++
		}
	}

	passed := true
	if s.Enforce {
		if len(citations) < s.MinCitations {
			passed = false
		}
		if invalid > 0 {
			passed = false
		}
	}

	citationScore := 0.5
	if s.MinCitations > 0 {
		n := len(citations)
		if n > s.MinCitations {
			n = s.MinCitations
		}
		citationScore = (float64(n) / float64(s.MinCitations)) * 0.5
	}

	validityScore := 0.5
	if len(citations) > 0 {
		valid := len(citations) - invalid
		validityScore = (float64(valid) / float64(len(citations))) * 0.5
	}

	severity := SeveritySoft
	if !passed {
		severity = SeverityHard
	}

	return StageResult{
		Stage:      s.Name(),
		Passed:     passed,
		Score:      citationScore + validityScore,
		Details:    fmt.Sprintf("found %d citations (%d valid, %d invalid)", len(citations), len(citations)-invalid, invalid),
		Severity:   severity,
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}

func isValidCitation(c Citation, known map[string]bool) bool {
	if known[c.FilePath] {
		return true
	}
	for f := range known {
		if strings.HasSuffix(f, c.FilePath) || strings.HasSuffix(c.FilePath, f) {
			return true
		}
	}
	return false
}
