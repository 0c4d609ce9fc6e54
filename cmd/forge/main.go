// Package main implements the forge CLI - the entry point and command
// registration hub for the Routing Orchestrator.
//
// # File Index
//
//   - main.go      - Entry point, rootCmd, global flags
//   - wire.go      - buildComponents(): config -> constructed component graph
//   - cmd_run.go   - runCmd: analyze a request and execute it end to end
//   - cmd_index.go - indexCmd: (re)chunk and (re)embed the workspace
//   - cmd_tui.go   - tuiCmd: bubbletea reference consumer of the event channel
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forge/internal/config"
	"forge/internal/logging"
)

var (
	verbose      bool
	workspaceDir string
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - a routing orchestrator for multi-tier coding agents",
	Long: `forge analyzes a free-form coding request, decomposes it into a
task graph, routes each task to the cheapest capable model tier, runs the
model's emitted script in a sandboxed interpreter, validates the result,
and applies the surviving changes to the workspace.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws := workspaceDir
		if ws == "" {
			var err error
			ws, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve workspace: %w", err)
			}
		}
		workspaceDir = ws
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "forge.toml", "path to the TOML config document")

	rootCmd.AddCommand(runCmd, indexCmd, tuiCmd, benchCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	logging.Configure(cfg.Logging.LoggingOptions())
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
