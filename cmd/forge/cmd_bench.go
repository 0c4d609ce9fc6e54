package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"forge/internal/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench [testcase.yaml]...",
	Short: "Run Hybrid Retriever test-case fixtures and report precision/recall",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBench,
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cases, err := bench.LoadTestCases(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	failed := 0

	for _, tc := range cases {
		root, err := filepath.Abs(tc.ProjectRoot)
		if err != nil {
			return fmt.Errorf("case %q: %w", tc.Name, err)
		}

		comps, err := buildComponents(ctx, cfg, root)
		if err != nil {
			return fmt.Errorf("case %q: %w", tc.Name, err)
		}

		result, err := bench.Run(ctx, comps.retriever, tc, 10)
		comps.Close()
		if err != nil {
			return err
		}

		status := "PASS"
		if !result.Passed() {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: precision@1=%.2f recall=%.2f (missed=%d, violations=%d)\n",
			status, tc.Name, result.PrecisionAt1, result.Recall, len(result.ExpectedMiss), len(result.ExcludedViolations))
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d benchmark case(s) failed", failed, len(cases))
	}
	return nil
}
