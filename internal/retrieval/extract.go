package retrieval

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"forge/internal/embedding"
)

// fileLineCache memoizes split-by-line file reads within one Retrieve
// call, since the same file commonly backs several candidate chunks.
type fileLineCache struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newFileLineCache() *fileLineCache {
	return &fileLineCache{lines: make(map[string][]string)}
}

func (c *fileLineCache) get(path string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lines, ok := c.lines[path]; ok {
		return lines, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	c.lines[path] = lines
	return lines, nil
}

// expandSpan widens [start, end] (1-indexed, inclusive) by contextLines
// on each side for source files, clamped to the file's bounds; text
// files are returned unchanged so they keep their exact span without
// extra context.
func expandSpan(path string, start, end, totalLines, contextLines int) (int, int) {
	if !embedding.IsSourceFile(path) {
		return start, end
	}
	expandedStart := start - contextLines
	if expandedStart < 1 {
		expandedStart = 1
	}
	expandedEnd := end + contextLines
	if expandedEnd > totalLines {
		expandedEnd = totalLines
	}
	return expandedStart, expandedEnd
}

// ExtractWithContext returns the annotated text for a retrieval result:
// the expanded window's lines, with a "matched chunk: lines X-Y" marker
// at the position of the originally matched (pre-expansion) span.
func ExtractWithContext(path string, matchStart, matchEnd, windowStart, windowEnd int, lines []string) string {
	if windowStart < 1 {
		windowStart = 1
	}
	if windowEnd > len(lines) {
		windowEnd = len(lines)
	}

	var b strings.Builder
	for i := windowStart; i <= windowEnd; i++ {
		if i == matchStart {
			fmt.Fprintf(&b, "// matched chunk: lines %d-%d\n", matchStart, matchEnd)
		}
		if i-1 < len(lines) {
			b.WriteString(lines[i-1])
			b.WriteString("\n")
		}
	}
	return b.String()
}
