package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"forge/internal/provider"
	"forge/internal/task"
)

func TestStrategyRouter_RoutesByDifficultyWhenAllTiersEnabled(t *testing.T) {
	r := NewStrategyRouter(true, true, true)

	assert.Equal(t, provider.Local, r.Route(task.Task{Difficulty: 1}))
	assert.Equal(t, provider.Local, r.Route(task.Task{Difficulty: 2}))
	assert.Equal(t, provider.Mid, r.Route(task.Task{Difficulty: 3}))
	assert.Equal(t, provider.Mid, r.Route(task.Task{Difficulty: 4}))
	assert.Equal(t, provider.Premium, r.Route(task.Task{Difficulty: 5}))
}

func TestStrategyRouter_SkipsDisabledTiersUpward(t *testing.T) {
	r := NewStrategyRouter(false, true, true)
	assert.Equal(t, provider.Mid, r.Route(task.Task{Difficulty: 1}))
}

func TestStrategyRouter_FallsBackToHighestReachedWhenNoneEnabledAbove(t *testing.T) {
	r := NewStrategyRouter(false, false, false)
	assert.Equal(t, provider.Premium, r.Route(task.Task{Difficulty: 1}))
}
