package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"forge/internal/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Analyze a request, decompose it into tasks, and execute them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	comps, err := buildComponents(ctx, cfg, workspaceDir)
	if err != nil {
		return err
	}
	defer comps.Close()

	request := strings.Join(args, " ")
	results, err := comps.orch.ProcessRequest(ctx, request)
	if err != nil {
		return fmt.Errorf("process request: %w", err)
	}

	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed: " + r.Err.Error()
		} else if !r.Validation.Passed && len(r.Validation.Stages) > 0 {
			status = "validation failed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] tier=%s duration=%dms %s\n", r.TaskID, r.TierUsed, r.DurationMS, status)
		if r.Response.Text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), r.Response.Text)
		}
	}

	report := metrics.BuildReport(comps.metrics.Snapshot(time.Time{}))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d requests, %.0f%% success, %.0f%% escalated, total cost $%.4f\n",
		report.TotalRequests, report.SuccessRate*100, report.EscalationRate*100, report.TotalCost)

	return nil
}
