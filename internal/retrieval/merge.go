package retrieval

import "sort"

// scoredSpan is a single candidate chunk's line span and combined score,
// the unit merge.go operates on before a final RetrievalResult is built.
type scoredSpan struct {
	filePath   string
	start, end int
	score      float64
	lexical    float64
	semantic   float64
}

// mergeOverlapping merges line spans within the same file when they fall
// within contextLines of each other, directly porting the original
// system's merge_overlapping_chunks: two spans [s1,e1] and [s2,e2] (with
// s2 >= s1) merge iff s2 - contextLines <= e1 + contextLines. The merged
// score is the max of the inputs; ties are broken by the deterministic
// sort order applied beforehand (by file, then start line).
func mergeOverlapping(spans []scoredSpan, contextLines int) []scoredSpan {
	if len(spans) == 0 {
		return nil
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].filePath != spans[j].filePath {
			return spans[i].filePath < spans[j].filePath
		}
		return spans[i].start < spans[j].start
	})

	merged := []scoredSpan{spans[0]}
	for _, next := range spans[1:] {
		last := &merged[len(merged)-1]

		if next.filePath != last.filePath {
			merged = append(merged, next)
			continue
		}

		expandedCurrentEnd := last.end + contextLines
		expandedStart := next.start - contextLines
		if expandedStart <= expandedCurrentEnd {
			if next.end > last.end {
				last.end = next.end
			}
			if next.score > last.score {
				last.score = next.score
			}
			if next.lexical > last.lexical {
				last.lexical = next.lexical
			}
			if next.semantic > last.semantic {
				last.semantic = next.semantic
			}
			continue
		}

		merged = append(merged, next)
	}
	return merged
}

// sortByScoreDesc orders results highest-combined-score first, with file
// path and start line as a deterministic tie-break.
func sortByScoreDesc(results []RetrievalResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		if results[i].FilePath != results[j].FilePath {
			return results[i].FilePath < results[j].FilePath
		}
		return results[i].StartLine < results[j].StartLine
	})
}
