package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forge/internal/contextbuild"
	"forge/internal/events"
	"forge/internal/metrics"
	"forge/internal/model"
	"forge/internal/provider"
	"forge/internal/task"
	"forge/internal/validate"
	"forge/internal/workspace"
)

func newTestOrchestrator(t *testing.T, local provider.Handle) (*Orchestrator, *events.Channel) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	registry := provider.NewRegistry()
	registry.Register(provider.Local, local)

	builder := contextbuild.NewBuilder(nil, root, "example", "system prompt", 4000)
	ws, err := workspace.New(root)
	require.NoError(t, err)

	router := NewStrategyRouter(true, true, true)
	ch := events.NewChannel()

	o := New(
		Config{MaxConcurrentTasks: 2, MaxRetries: 2, EnableConflictDetection: true},
		router, registry, builder, nil, ws, nil, nil, metrics.NewCollector(), ch,
	)
	return o, ch
}

func TestExecuteTask_SuccessfulGenerationEmitsStartedAndCompleted(t *testing.T) {
	mock := &provider.MockProvider{
		GenerateFunc: func(ctx context.Context, query string, c provider.Context) (model.Response, error) {
			return model.Response{Text: "done", Provider: "local"}, nil
		},
	}
	o, ch := newTestOrchestrator(t, mock)

	tk := task.Task{ID: "t1", Description: "fix the bug", Difficulty: 1}
	result := o.ExecuteTask(context.Background(), tk)

	require.NoError(t, result.Err)
	assert.Equal(t, "done", result.Response.Text)
	assert.Equal(t, "local", result.TierUsed)

	var kinds []events.Kind
	for i := 0; i < 2; i++ {
		select {
		case e := <-ch.Events():
			kinds = append(kinds, e.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	assert.Contains(t, kinds, events.KindTaskStarted)
	assert.Contains(t, kinds, events.KindTaskCompleted)
}

func TestExecuteTask_RetriesThenEscalatesOnRepeatedFailure(t *testing.T) {
	calls := 0
	local := &provider.MockProvider{
		GenerateFunc: func(ctx context.Context, query string, c provider.Context) (model.Response, error) {
			calls++
			return model.Response{}, errors.New("local provider down")
		},
	}
	mid := &provider.MockProvider{
		GenerateFunc: func(ctx context.Context, query string, c provider.Context) (model.Response, error) {
			return model.Response{Text: "escalated", Provider: "mid"}, nil
		},
	}

	o, _ := newTestOrchestrator(t, local)
	o.registry.Register(provider.Mid, mid)
	o.cfg.MaxRetries = 1 // avoid real sleeps in the test

	tk := task.Task{ID: "t1", Description: "fix the bug", Difficulty: 1}
	result := o.ExecuteTask(context.Background(), tk)

	require.NoError(t, result.Err)
	assert.Equal(t, "escalated", result.Response.Text)
	assert.Equal(t, "mid", result.TierUsed)
	assert.Equal(t, 1, calls, "local provider should be attempted exactly MaxRetries times before escalating")
}

func TestExecuteTask_FatalValidationFailureMarksResultFailed(t *testing.T) {
	local := &provider.MockProvider{
		GenerateFunc: func(ctx context.Context, query string, c provider.Context) (model.Response, error) {
			return model.Response{Text: "no citations here"}, nil
		},
	}
	o, _ := newTestOrchestrator(t, local)
	o.pipeline = validate.NewPipeline([]validate.Stage{validate.NewCitationsStage(true, true)}, false)

	tk := task.Task{ID: "t1", Description: "fix the bug", Difficulty: 1}
	result := o.ExecuteTask(context.Background(), tk)

	assert.False(t, result.Validation.Passed)
}

func TestExecuteTasks_RunsDependentTasksInOrderAndReturnsTaskIDSorted(t *testing.T) {
	local := &provider.MockProvider{
		GenerateFunc: func(ctx context.Context, query string, c provider.Context) (model.Response, error) {
			return model.Response{Text: "ok"}, nil
		},
	}
	o, _ := newTestOrchestrator(t, local)

	tasks := []task.Task{
		{ID: "b", Description: "second", DependsOn: []string{"a"}},
		{ID: "a", Description: "first"},
	}
	results, err := o.ExecuteTasks(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].TaskID)
	assert.Equal(t, "b", results[1].TaskID)
}
