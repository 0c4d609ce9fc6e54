package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubStage struct {
	name   string
	weight float64
	fatal  bool
	result StageResult
	err    error
}

func (s stubStage) Name() string    { return s.name }
func (s stubStage) Weight() float64 { return s.weight }
func (s stubStage) Fatal() bool     { return s.fatal }
func (s stubStage) Validate(context.Context, string, []string) (StageResult, error) {
	return s.result, s.err
}

func TestPipeline_Run_AllPassYieldsWeightedScore(t *testing.T) {
	p := NewPipeline([]Stage{
		stubStage{name: "a", weight: 1, result: StageResult{Stage: "a", Passed: true, Score: 1.0}},
		stubStage{name: "b", weight: 1, result: StageResult{Stage: "b", Passed: true, Score: 0.0}},
	}, false)
	res := p.Run(context.Background(), "resp", nil)
	assert.True(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)
}

func TestPipeline_Run_FatalFailureFailsOverallButNonFatalDoesNot(t *testing.T) {
	p := NewPipeline([]Stage{
		stubStage{name: "a", weight: 1, fatal: false, result: StageResult{Stage: "a", Passed: false, Score: 0}},
	}, false)
	res := p.Run(context.Background(), "resp", nil)
	assert.True(t, res.Passed, "non-fatal stage failure must not fail the overall result")

	p2 := NewPipeline([]Stage{
		stubStage{name: "a", weight: 1, fatal: true, result: StageResult{Stage: "a", Passed: false, Score: 0}},
	}, false)
	res2 := p2.Run(context.Background(), "resp", nil)
	assert.False(t, res2.Passed)
}

func TestPipeline_Run_EarlyExitSkipsRemainingStages(t *testing.T) {
	p := NewPipeline([]Stage{
		stubStage{name: "a", weight: 1, fatal: true, result: StageResult{Stage: "a", Passed: false, Score: 0}},
		stubStage{name: "b", weight: 1, fatal: true, result: StageResult{Stage: "b", Passed: true, Score: 1}},
	}, true)
	res := p.Run(context.Background(), "resp", nil)
	assert.Len(t, res.Stages, 1, "early_exit should stop before running stage b")
}
