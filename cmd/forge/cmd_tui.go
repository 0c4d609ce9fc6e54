package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [request]",
	Short: "Run a request while rendering the task tree live",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
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

	model := newTaskTreeModel(comps.orch.TaskManager(), comps.events)
	program := tea.NewProgram(model)

	request := strings.Join(args, " ")
	errCh := make(chan error, 1)
	go func() {
		_, err := comps.orch.ProcessRequest(ctx, request)
		errCh <- err
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	return <-errCh
}
