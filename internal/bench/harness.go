package bench

import (
	"context"
	"fmt"

	"forge/internal/retrieval"
)

// Result is one test case's outcome against a live Retriever run.
type Result struct {
	Case *TestCase

	Surfaced []retrieval.RetrievalResult

	// ExpectedHit/ExpectedMiss partition the case's Expected list by
	// whether any surfaced result's file path matched.
	ExpectedHit  []ExpectedFile
	ExpectedMiss []ExpectedFile

	// ExcludedViolations are Excluded entries that were surfaced anyway.
	ExcludedViolations []ExcludedFile

	// PrecisionAt1 is 1.0 iff the single highest-ranked surfaced file is
	// in Expected.
	PrecisionAt1 float64

	// Recall is the fraction of Expected entries that were surfaced at
	// any rank.
	Recall float64
}

// Run executes a test case's query against retriever and scores the
// result against the case's expected/excluded file lists.
func Run(ctx context.Context, retriever *retrieval.Retriever, tc *TestCase, k int) (*Result, error) {
	surfaced, err := retriever.Retrieve(ctx, tc.Query, k)
	if err != nil {
		return nil, fmt.Errorf("benchmark case %q: retrieve: %w", tc.Name, err)
	}

	surfacedPaths := make(map[string]bool, len(surfaced))
	for _, r := range surfaced {
		surfacedPaths[r.FilePath] = true
	}

	res := &Result{Case: tc, Surfaced: surfaced}

	for _, e := range tc.Expected {
		if surfacedPaths[e.Path] {
			res.ExpectedHit = append(res.ExpectedHit, e)
		} else {
			res.ExpectedMiss = append(res.ExpectedMiss, e)
		}
	}
	for _, e := range tc.Excluded {
		if surfacedPaths[e.Path] {
			res.ExcludedViolations = append(res.ExcludedViolations, e)
		}
	}

	if len(surfaced) > 0 {
		for _, e := range tc.Expected {
			if e.Path == surfaced[0].FilePath {
				res.PrecisionAt1 = 1.0
				break
			}
		}
	}

	if len(tc.Expected) > 0 {
		res.Recall = float64(len(res.ExpectedHit)) / float64(len(tc.Expected))
	}

	return res, nil
}

// Passed reports whether the case met its own bar: every expected file
// surfaced and no excluded file surfaced.
func (r *Result) Passed() bool {
	return len(r.ExpectedMiss) == 0 && len(r.ExcludedViolations) == 0
}
