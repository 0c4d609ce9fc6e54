package task

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// filePathPattern finds bare file-path mentions in a request, ported
// from internal/retrieval/sparse.go's filePathPattern (extended with a
// couple more extensions this module's own source tree uses).
var filePathPattern = regexp.MustCompile(`(?:^|\s)([a-zA-Z_][a-zA-Z0-9_/.]*\.(?:go|py|js|ts|rs|java|rb|cpp|c|h|toml|yaml|yml|json))(?:\s|$|:|,|\.)`)

// listItemPattern finds numbered- or bulleted-list items.
var listItemPattern = regexp.MustCompile(`(?m)^\s*(?:[-*]|\d+[.)])\s+(.+)$`)

// difficultyUpWords and difficultyDownWords nudge the 1-5 difficulty
// score up or down based on words present in the task description.
var difficultyUpWords = []string{"refactor", "migrate", "rewrite", "redesign", "overhaul", "architecture"}
var difficultyDownWords = []string{"rename", "typo", "comment", "format", "whitespace"}

// Analyze decomposes a free-form request into an ordered list of Tasks.
// Trivial requests (no enumerable structure, short) yield a single Task.
func Analyze(request string) []Task {
	items := decompose(request)
	tasks := make([]Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, Task{
			ID:            uuid.NewString(),
			Description:   item,
			Difficulty:    scoreDifficulty(item),
			RequiredFiles: extractFiles(item),
		})
	}
	return tasks
}

// decompose splits request into subtask-shaped strings by enumerable
// structure: numbered/bulleted lists first, then " and "/"; "-joined
// conjunctions, falling back to the whole request as a single item.
func decompose(request string) []string {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil
	}

	if matches := listItemPattern.FindAllStringSubmatch(request, -1); len(matches) > 1 {
		items := make([]string, 0, len(matches))
		for _, m := range matches {
			items = append(items, strings.TrimSpace(m[1]))
		}
		return items
	}

	for _, sep := range []string{"; ", " and then ", " and "} {
		if parts := strings.Split(request, sep); len(parts) > 1 {
			items := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					items = append(items, p)
				}
			}
			if len(items) > 1 {
				return items
			}
		}
	}

	return []string{request}
}

// scoreDifficulty returns a 1-5 score from a length+keyword heuristic.
func scoreDifficulty(description string) int {
	lower := strings.ToLower(description)
	score := 2
	wordCount := len(strings.Fields(description))
	switch {
	case wordCount > 60:
		score++
	case wordCount < 10:
		score--
	}
	for _, w := range difficultyUpWords {
		if strings.Contains(lower, w) {
			score++
			break
		}
	}
	for _, w := range difficultyDownWords {
		if strings.Contains(lower, w) {
			score--
			break
		}
	}
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	return score
}

// extractFiles finds explicit file-path mentions in text.
func extractFiles(text string) []string {
	matches := filePathPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var files []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			files = append(files, m[1])
		}
	}
	return files
}
