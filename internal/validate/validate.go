// Package validate runs a staged validation pipeline over a model
// response: citation cross-checking, language-delegated syntax checks,
// and an optional build-command stage in an Isolated Workspace copy.
package validate

import (
	"context"

	"forge/internal/logging"
)

// Severity distinguishes a stage's failures that merely degrade score
// from ones that fail the stage outright.
type Severity int

const (
	SeveritySoft Severity = iota
	SeverityHard
)

// StageResult is one stage's outcome.
type StageResult struct {
	Stage      string
	Passed     bool
	Score      float64
	Details    string
	Severity   Severity
	DurationMS int64
}

// Result is the Validation Pipeline's overall verdict: Passed is true
// only if every fatal-configured stage passed; Score is the weighted
// mean of stage scores.
type Result struct {
	Passed bool
	Score  float64
	Stages []StageResult
}

// Stage validates one response and returns its StageResult. Stages must
// not block past ctx's deadline.
type Stage interface {
	Name() string
	Weight() float64
	Fatal() bool
	Validate(ctx context.Context, response string, contextFiles []string) (StageResult, error)
}

// Pipeline runs a fixed ordered list of Stages, honoring early-exit.
type Pipeline struct {
	stages    []Stage
	earlyExit bool
}

// NewPipeline builds a Pipeline from an ordered stage list.
func NewPipeline(stages []Stage, earlyExit bool) *Pipeline {
	return &Pipeline{stages: stages, earlyExit: earlyExit}
}

// Run executes every configured stage in order against response,
// cross-checking against contextFiles where a stage needs it.
func (p *Pipeline) Run(ctx context.Context, response string, contextFiles []string) Result {
	var stageResults []StageResult
	var weightedScore, weightSum float64
	fatalFailed := false

	for _, s := range p.stages {
		res, err := s.Validate(ctx, response, contextFiles)
		if err != nil {
			logging.ValidateWarn("stage %s returned an error: %v", s.Name(), err)
			res = StageResult{Stage: s.Name(), Passed: false, Severity: SeverityHard, Details: err.Error()}
		}
		stageResults = append(stageResults, res)

		weightedScore += res.Score * s.Weight()
		weightSum += s.Weight()

		if !res.Passed && s.Fatal() {
			fatalFailed = true
			logging.Validate("stage %s failed fatally: %s", s.Name(), res.Details)
			if p.earlyExit {
				break
			}
		}
	}

	score := 0.0
	if weightSum > 0 {
		score = weightedScore / weightSum
	}

	return Result{Passed: !fatalFailed, Score: score, Stages: stageResults}
}
