package contextbuild

import (
	"sort"
	"strings"
)

// preferredExtensions mirrors RelevanceScorer's file-extension
// preference signal, substituting this project's source extensions for
// the original's rs/toml/md/json list.
var preferredExtensions = map[string]bool{
	".go": true, ".toml": true, ".md": true, ".json": true,
}

// RelevanceScorer scores a file's relevance to a query, ported from
// original_source/crates/merlin-context/src/pruning.rs's RelevanceScorer:
// keyword match fraction (up to 0.5), extension preference (up to 0.2),
// size tiers (up to 0.15), and churn markers (up to 0.15).
type RelevanceScorer struct {
	keywords []string
}

// NewRelevanceScorer extracts keywords from a query: words longer than
// two characters, lowercased.
func NewRelevanceScorer(query string) *RelevanceScorer {
	var keywords []string
	for _, word := range strings.Fields(query) {
		if len(word) > 2 {
			keywords = append(keywords, strings.ToLower(word))
		}
	}
	return &RelevanceScorer{keywords: keywords}
}

// Score returns a relevance score in [0, 1] for a file.
func (s *RelevanceScorer) Score(path, content string) float64 {
	var score float64
	contentLower := strings.ToLower(content)

	if len(s.keywords) > 0 {
		matches := 0
		for _, kw := range s.keywords {
			if strings.Contains(contentLower, kw) {
				matches++
			}
		}
		score += (float64(matches) / float64(len(s.keywords))) * 0.5
	}

	if ext := extOf(path); preferredExtensions[ext] {
		score += 0.2
	}

	switch size := len(content); {
	case size < 5000:
		score += 0.15
	case size < 20_000:
		score += 0.1
	case size < 50_000:
		score += 0.05
	}

	if strings.Contains(contentLower, "todo") || strings.Contains(contentLower, "fixme") || strings.Contains(contentLower, "hack") {
		score += 0.15
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// ScoreFiles scores every file and returns them sorted by descending
// relevance.
func (s *RelevanceScorer) ScoreFiles(files []FileContext) []scoredFile {
	scored := make([]scoredFile, len(files))
	for i, f := range files {
		scored[i] = scoredFile{path: f.Path, content: f.Content, relevance: s.Score(f.Path, f.Content)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].relevance > scored[j].relevance })
	return scored
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(path[idx:])
}
