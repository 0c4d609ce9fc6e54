package chunk

import (
	"strings"

	"forge/internal/logging"
)

// File splits a file's content into chunks. A file estimated below
// MinChunkTokens forms a single chunk. Otherwise structural segments are
// grouped greedily up to MaxChunkTokens; the MinChunkTokens floor is not
// enforced on these groups, so a short trailing or isolated group can
// fall below it, and a piece split from an oversized segment can exceed
// MaxChunkTokens by up to one line.
func File(path, content string) []Chunk {
	hash := HashContent(content)

	if content == "" {
		return nil
	}

	if EstimateTokens(content) < MinChunkTokens {
		lines := splitLines(content)
		return []Chunk{{
			FilePath:    path,
			StartLine:   1,
			EndLine:     len(lines),
			Identifier:  "whole_file",
			Content:     content,
			ContentHash: hash,
		}}
	}

	lines := splitLines(content)
	segments := segmentBoundaries(path, content, len(lines))
	chunks := groupSegments(path, lines, segments, hash)

	logging.ChunkDebug("chunked %s into %d chunks (%d lines)", path, len(chunks), len(lines))
	return chunks
}

func splitLines(content string) []string {
	// Preserve trailing-empty-line semantics: "a\nb\n" -> ["a","b"], not ["a","b",""].
	trimmed := strings.TrimSuffix(content, "\n")
	return strings.Split(trimmed, "\n")
}

// segment is a closed [startLine, endLine] (1-indexed, both ends inclusive) span
// with an optional structural identifier.
type segment struct {
	startLine, endLine int
	identifier         string
}

// segmentBoundaries partitions the file into contiguous segments at
// structural boundaries (tree-sitter declarations for recognized source
// languages) or, for anything else, at blank-line-delimited paragraph
// breaks. The segments always cover the whole file with no gaps.
func segmentBoundaries(path, content string, totalLines int) []segment {
	lang := languageForPath(path)
	var starts []boundary
	if lang != "" {
		starts = declBoundaries(lang, path, []byte(content))
	}
	if len(starts) == 0 {
		starts = paragraphBoundaries(content)
	}

	if len(starts) == 0 || starts[0].startLine != 1 {
		starts = append([]boundary{{startLine: 1, name: "preamble"}}, starts...)
	}

	segments := make([]segment, 0, len(starts))
	for i, b := range starts {
		end := totalLines
		if i+1 < len(starts) {
			end = starts[i+1].startLine - 1
		}
		if b.startLine > end {
			continue
		}
		segments = append(segments, segment{startLine: b.startLine, endLine: end, identifier: b.name})
	}
	return segments
}

// paragraphBoundaries finds heading/paragraph breaks for text files and
// logical sections (blank-line-delimited) for anything without a
// tree-sitter grammar.
func paragraphBoundaries(content string) []boundary {
	lines := splitLines(content)
	var bounds []boundary
	prevBlank := true
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		isHeading := strings.HasPrefix(trimmed, "#")
		if (prevBlank && trimmed != "") || isHeading {
			name := "section"
			if isHeading {
				name = strings.TrimLeft(trimmed, "# ")
			}
			bounds = append(bounds, boundary{startLine: i + 1, name: name})
		}
		prevBlank = trimmed == ""
	}
	return bounds
}

// groupSegments merges consecutive segments until each chunk's token
// estimate falls in range, and splits any single oversized segment at
// line boundaries greedily.
func groupSegments(path string, lines []string, segments []segment, hash string) []Chunk {
	var chunks []Chunk

	flush := func(start, end int, identifier string) {
		text := strings.Join(lines[start-1:end], "\n")
		if strings.TrimSpace(text) == "" {
			return
		}
		chunks = append(chunks, Chunk{
			FilePath:    path,
			StartLine:   start,
			EndLine:     end,
			Identifier:  identifier,
			Content:     text,
			ContentHash: hash,
		})
	}

	var pendingStart, pendingEnd int
	var pendingIdentifiers []string
	hasPending := false

	for _, seg := range segments {
		segTokens := EstimateTokens(strings.Join(lines[seg.startLine-1:seg.endLine], "\n"))

		if segTokens > MaxChunkTokens {
			if hasPending {
				flush(pendingStart, pendingEnd, strings.Join(pendingIdentifiers, ", "))
				hasPending = false
				pendingIdentifiers = nil
			}
			splitOversizedSegment(path, lines, seg, hash, &chunks)
			continue
		}

		if !hasPending {
			pendingStart, pendingEnd = seg.startLine, seg.endLine
			pendingIdentifiers = []string{seg.identifier}
			hasPending = true
			continue
		}

		mergedTokens := EstimateTokens(strings.Join(lines[pendingStart-1:seg.endLine], "\n"))
		if mergedTokens > MaxChunkTokens {
			flush(pendingStart, pendingEnd, strings.Join(pendingIdentifiers, ", "))
			pendingStart, pendingEnd = seg.startLine, seg.endLine
			pendingIdentifiers = []string{seg.identifier}
			continue
		}

		pendingEnd = seg.endLine
		pendingIdentifiers = append(pendingIdentifiers, seg.identifier)
	}

	if hasPending {
		flush(pendingStart, pendingEnd, strings.Join(pendingIdentifiers, ", "))
	}

	return chunks
}

// splitOversizedSegment splits a single structural unit exceeding
// MaxChunkTokens at line boundaries, greedily filling each piece up to
// the ceiling.
func splitOversizedSegment(path string, lines []string, seg segment, hash string, chunks *[]Chunk) {
	start := seg.startLine
	for start <= seg.endLine {
		end := start
		for end < seg.endLine {
			next := EstimateTokens(strings.Join(lines[start-1:end], "\n"))
			if next >= MaxChunkTokens {
				break
			}
			end++
		}
		text := strings.Join(lines[start-1:end], "\n")
		if strings.TrimSpace(text) != "" {
			*chunks = append(*chunks, Chunk{
				FilePath:    path,
				StartLine:   start,
				EndLine:     end,
				Identifier:  seg.identifier,
				Content:     text,
				ContentHash: hash,
			})
		}
		start = end + 1
	}
}
