// Package orchestrator implements the Routing Orchestrator: it executes
// a Task Graph end-to-end, choosing a tier per task, retrying and
// escalating on failure, running the model's emitted script, validating
// the result, applying workspace mutations, and recording metrics and
// cache entries — emitting structured events at every step.
package orchestrator

import (
	"context"
	"time"

	"forge/internal/cache"
	"forge/internal/contextbuild"
	"forge/internal/events"
	"forge/internal/metrics"
	"forge/internal/provider"
	"forge/internal/task"
	"forge/internal/tool"
	"forge/internal/validate"
	"forge/internal/workspace"
)

// Config governs the orchestrator's scheduling and retry policy,
// mirroring internal/config.ExecutionConfig and TiersConfig.
type Config struct {
	MaxConcurrentTasks      int
	EnableConflictDetection bool
	MaxRetries              int
	ScriptTimeout           time.Duration
}

// Orchestrator composes every component the Routing Orchestrator
// touches per task: context building, routing, provider handles, script
// execution, validation, workspace apply, caching, metrics, and the
// event channel.
type Orchestrator struct {
	cfg Config

	router    Router
	registry  *provider.Registry
	builder   *contextbuild.Builder
	pipeline  *validate.Pipeline
	workspace *workspace.Workspace
	runtime   *tool.Runtime
	cache     *cache.Cache
	metrics   *metrics.Collector
	events    *events.Channel
	manager   *events.Manager

	analyze func(request string) []task.Task
}

// New builds an Orchestrator from its component dependencies. Any of
// pipeline, cache, runtime may be nil to disable that step (e.g. in
// tests exercising only the generate-and-validate path).
func New(
	cfg Config,
	router Router,
	registry *provider.Registry,
	builder *contextbuild.Builder,
	pipeline *validate.Pipeline,
	ws *workspace.Workspace,
	runtime *tool.Runtime,
	respCache *cache.Cache,
	metricsCollector *metrics.Collector,
	ch *events.Channel,
) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		router:    router,
		registry:  registry,
		builder:   builder,
		pipeline:  pipeline,
		workspace: ws,
		runtime:   runtime,
		cache:     respCache,
		metrics:   metricsCollector,
		events:    ch,
		manager:   events.NewManager(),
		analyze:   task.Analyze,
	}
	return o
}

// WithAnalyzer overrides the request decomposer, for tests.
func (o *Orchestrator) WithAnalyzer(fn func(request string) []task.Task) *Orchestrator {
	o.analyze = fn
	return o
}

// TaskManager exposes the Task Manager backing this orchestrator's
// event observations.
func (o *Orchestrator) TaskManager() *events.Manager {
	return o.manager
}

// AnalyzeRequest decomposes a free-form request into an ordered Task list.
func (o *Orchestrator) AnalyzeRequest(request string) []task.Task {
	return o.analyze(request)
}

// ProcessRequest runs the complete workflow: analyze, build the task
// graph, execute it under concurrency limits, and return results in
// task-id order.
func (o *Orchestrator) ProcessRequest(ctx context.Context, request string) ([]TaskResult, error) {
	tasks := o.AnalyzeRequest(request)
	for _, t := range tasks {
		o.manager.Register(t.ID, t.ParentID)
	}
	return o.ExecuteTasks(ctx, tasks)
}
