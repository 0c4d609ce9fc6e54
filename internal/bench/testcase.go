// Package bench implements the retrieval benchmark harness: test-case
// fixtures describing a query and the files a correct Hybrid Retriever
// run should (and shouldn't) surface.
package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Priority ranks how critical an expected file is to the correct answer.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ExpectedFile is a file the retriever should surface for the test
// case's query, along with why.
type ExpectedFile struct {
	Path     string   `yaml:"path"`
	Priority Priority `yaml:"priority"`
	Reason   string   `yaml:"reason"`
}

// ExcludedFile is a file the retriever should NOT surface, along with
// why — e.g. a lexically similar but semantically unrelated file.
type ExcludedFile struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// TestCase is one benchmark fixture, loaded from a YAML document.
type TestCase struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Query       string         `yaml:"query"`
	ProjectRoot string         `yaml:"project_root"`
	Expected    []ExpectedFile `yaml:"expected"`
	Excluded    []ExcludedFile `yaml:"excluded"`
}

// LoadTestCase reads and parses a single test-case YAML file.
func LoadTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test case %s: %w", path, err)
	}

	var tc TestCase
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parse test case %s: %w", path, err)
	}
	if tc.Query == "" {
		return nil, fmt.Errorf("test case %s: query is required", path)
	}
	if tc.ProjectRoot == "" {
		return nil, fmt.Errorf("test case %s: project_root is required", path)
	}
	return &tc, nil
}

// LoadTestCases reads one test case from each of the given YAML file
// paths, in order; the first load error aborts the whole call.
func LoadTestCases(paths []string) ([]*TestCase, error) {
	cases := make([]*TestCase, 0, len(paths))
	for _, p := range paths {
		tc, err := LoadTestCase(p)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}
