package retrieval

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern splits chunk content and queries into lowercase word
// tokens via regex-driven term splitting, generalized from "extract
// notable symbols" to "tokenize everything" since BM25 needs a full
// term frequency table, not a keyword shortlist.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

func tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	return matches
}

// bm25Doc is one document's term frequency table, as scored against a
// query by BM25Index.Score.
type bm25Doc struct {
	id     string
	terms  map[string]int
	length int
}

// BM25Index is an in-memory Okapi BM25 index built fresh per retrieval
// call from the query's candidate chunk pool, producing a numeric score
// per chunk rather than a matching file list.
type BM25Index struct {
	k1, b     float64
	docs      []bm25Doc
	docFreq   map[string]int // term -> number of docs containing it
	avgLength float64
}

// NewBM25Index constructs an index with the given BM25 parameters.
func NewBM25Index(k1, b float64) *BM25Index {
	return &BM25Index{k1: k1, b: b, docFreq: make(map[string]int)}
}

// AddDocument indexes content under id. Call AddDocument for every
// candidate chunk before calling Score.
func (idx *BM25Index) AddDocument(id, content string) {
	terms := tokenize(content)
	freq := make(map[string]int, len(terms))
	for _, t := range terms {
		freq[t]++
	}
	for t := range freq {
		idx.docFreq[t]++
	}
	idx.docs = append(idx.docs, bm25Doc{id: id, terms: freq, length: len(terms)})

	total := 0
	for _, d := range idx.docs {
		total += d.length
	}
	idx.avgLength = float64(total) / float64(len(idx.docs))
}

// Score returns the BM25 score of query against every indexed document,
// keyed by document id.
func (idx *BM25Index) Score(query string) map[string]float64 {
	scores := make(map[string]float64, len(idx.docs))
	if len(idx.docs) == 0 {
		return scores
	}

	n := float64(len(idx.docs))
	queryTerms := uniqueTerms(tokenize(query))

	for _, doc := range idx.docs {
		var score float64
		for _, term := range queryTerms {
			tf, ok := doc.terms[term]
			if !ok {
				continue
			}
			df := float64(idx.docFreq[term])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			numerator := float64(tf) * (idx.k1 + 1)
			denominator := float64(tf) + idx.k1*(1-idx.b+idx.b*(float64(doc.length)/idx.avgLength))
			score += idf * numerator / denominator
		}
		scores[doc.id] = score
	}
	return scores
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// normalizeScores rescales a raw BM25 score map into [0, 1] by dividing
// by the maximum observed score, so it blends meaningfully against the
// already-normalized cosine semantic score.
func normalizeScores(raw map[string]float64) map[string]float64 {
	max := 0.0
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return raw
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		out[k] = v / max
	}
	return out
}
