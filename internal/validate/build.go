package validate

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"forge/internal/workspace"
)

// BuildStage runs a configured build command inside a copy-on-write
// Workspace sandbox: a copy of the workspace as it stands, with no other
// changes applied to it. It never mutates the real workspace.
type BuildStage struct {
	ws      *workspace.Workspace
	command []string
	timeout time.Duration
	fatal   bool
}

// NewBuildStage builds the Build stage, which runs command in a sandbox
// copy of ws.
func NewBuildStage(ws *workspace.Workspace, command []string, timeout time.Duration, fatal bool) *BuildStage {
	return &BuildStage{ws: ws, command: command, timeout: timeout, fatal: fatal}
}

func (s *BuildStage) Name() string    { return "build" }
func (s *BuildStage) Weight() float64 { return 1.0 }
func (s *BuildStage) Fatal() bool     { return s.fatal }

// Validate ignores response/contextFiles: a build stage checks that the
// workspace (with the task's already-applied changes) still builds, not
// the response text itself. It's invoked after ApplyChanges so the real
// workspace already reflects the task's mutations at the time of this call.
func (s *BuildStage) Validate(ctx context.Context, _ string, _ []string) (StageResult, error) {
	start := time.Now()
	if len(s.command) == 0 {
		return StageResult{
			Stage: s.Name(), Passed: true, Score: 0.5,
			Details: "no build command configured", Severity: SeveritySoft,
			DurationMS: time.Since(start).Milliseconds(),
		}, nil
	}

	sb, err := workspace.NewSandbox(s.ws, nil)
	if err != nil {
		return StageResult{}, err
	}
	defer sb.Destroy()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.command[0], s.command[1:]...)
	cmd.Dir = sb.Dir()
	output, err := cmd.CombinedOutput()

	passed := err == nil
	score := 1.0
	if !passed {
		score = 0.0
	}

	return StageResult{
		Stage:      s.Name(),
		Passed:     passed,
		Score:      score,
		Details:    strings.TrimSpace(string(output)),
		Severity:   severityFor(passed),
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}
