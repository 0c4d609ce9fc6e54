package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forge/internal/contextbuild"
	"forge/internal/events"
	"forge/internal/logging"
	"forge/internal/model"
	"forge/internal/provider"
	"forge/internal/task"
	"forge/internal/tool"
)

// ExecuteTask runs one task through the full per-task pipeline: build
// context, route to a tier, generate with retry/escalation, run any
// emitted script (which applies its own workspace mutations tool call
// by tool call — see internal/tool's write/edit/delete tools), validate,
// record metrics, cache the response, and emit lifecycle events.
func (o *Orchestrator) ExecuteTask(ctx context.Context, t task.Task) TaskResult {
	start := time.Now()

	if o.cache != nil {
		if resp, ok := o.cache.SimilarityGet(t.Description); ok {
			logging.OrchestratorDebug("task %s served from response cache", t.ID)
			return TaskResult{TaskID: t.ID, Response: resp, TierUsed: resp.Provider, DurationMS: durationSince(start)}
		}
	}

	ctxBundle, err := o.builder.Build(ctx, t.Description, t.RequiredFiles, nil)
	if err != nil {
		o.events.TaskFailed(t.ID, "", err.Error())
		o.manager.Observe(events.Event{Kind: events.KindTaskFailed, TaskID: t.ID, Err: err.Error()})
		return TaskResult{TaskID: t.ID, Err: err, DurationMS: durationSince(start)}
	}

	tier := o.router.Route(t)
	o.events.TaskStarted(t.ID, tier.String())
	o.manager.Observe(events.Event{Kind: events.KindTaskStarted, TaskID: t.ID, Tier: tier.String()})

	providerCtx := toProviderContext(ctxBundle)
	resp, usedTier, err := o.generateWithRetry(ctx, t, tier, providerCtx)
	if err != nil {
		o.events.TaskFailed(t.ID, usedTier.String(), err.Error())
		o.manager.Observe(events.Event{Kind: events.KindTaskFailed, TaskID: t.ID, Err: err.Error()})
		o.recordMetrics(t, usedTier, model.TokenUsage{}, durationSince(start), false, usedTier != tier)
		return TaskResult{TaskID: t.ID, TierUsed: usedTier.String(), Err: err, DurationMS: durationSince(start)}
	}

	var contextPaths []string
	for _, f := range ctxBundle.Files {
		contextPaths = append(contextPaths, f.Path)
	}

	if script, ok := tool.ExtractScript(resp.Text); ok && o.runtime != nil {
		o.events.ToolCallStarted(t.ID, "script", "")
		out, diffs, scriptErr := o.runtime.Execute(ctx, script)
		if scriptErr != nil {
			o.events.ToolCallCompleted(t.ID, "script", scriptErr.Error())
			logging.OrchestratorDebug("task %s script execution failed: %v", t.ID, scriptErr)
		} else {
			o.events.ToolCallCompletedWithDiff(t.ID, "script", out, strings.Join(diffs, "\n"))
		}
	}

	result := TaskResult{TaskID: t.ID, Response: resp, TierUsed: usedTier.String(), DurationMS: durationSince(start)}

	if o.pipeline != nil {
		result.Validation = o.pipeline.Run(ctx, resp.Text, contextPaths)
		if !result.Validation.Passed {
			o.events.TaskFailed(t.ID, usedTier.String(), "validation failed")
			o.manager.Observe(events.Event{Kind: events.KindTaskFailed, TaskID: t.ID, Err: "validation failed"})
			o.recordMetrics(t, usedTier, resp.Tokens, durationSince(start), false, usedTier != tier)
			return result
		}
	}

	if o.cache != nil {
		o.cache.Put(t.Description, resp)
	}
	o.recordMetrics(t, usedTier, resp.Tokens, durationSince(start), true, usedTier != tier)

	o.events.TaskCompleted(t.ID, usedTier.String())
	o.manager.Observe(events.Event{Kind: events.KindTaskCompleted, TaskID: t.ID})

	return result
}

// generateWithRetry calls the tier's provider, retrying with exponential
// backoff (1s, 2s, 4s, ...) up to MaxRetries attempts; on exhaustion it
// escalates to the next tier up and makes one final attempt there
// before giving up.
func (o *Orchestrator) generateWithRetry(ctx context.Context, t task.Task, tier provider.Tier, pctx provider.Context) (model.Response, provider.Tier, error) {
	handle, ok := o.registry.Get(tier)
	if !ok {
		return model.Response{}, tier, fmt.Errorf("orchestrator: no provider registered for tier %s", tier)
	}

	maxRetries := o.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := handle.Generate(ctx, t.Description, pctx)
		if err == nil {
			return resp, tier, nil
		}
		lastErr = err
		o.events.TaskRetrying(t.ID, tier.String(), attempt)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return model.Response{}, tier, ctx.Err()
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}
	}

	higherTier, ok := tier.NextUp()
	if !ok {
		return model.Response{}, tier, fmt.Errorf("orchestrator: failed after %d retries: %w", maxRetries, lastErr)
	}

	escalatedHandle, ok := o.registry.Get(higherTier)
	if !ok {
		return model.Response{}, tier, fmt.Errorf("orchestrator: failed after %d retries and no provider for escalated tier %s: %w", maxRetries, higherTier, lastErr)
	}

	logging.Orchestrator("task %s escalating from %s to %s after %d failed attempts", t.ID, tier, higherTier, maxRetries)
	resp, err := escalatedHandle.Generate(ctx, t.Description, pctx)
	if err != nil {
		return model.Response{}, higherTier, fmt.Errorf("orchestrator: escalated attempt at %s also failed: %w", higherTier, err)
	}
	return resp, higherTier, nil
}

func (o *Orchestrator) recordMetrics(t task.Task, tier provider.Tier, tokens model.TokenUsage, latencyMS int64, success, escalated bool) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordRequest(t.Description, tier.String(), latencyMS, tokens, success, escalated)
}

func toProviderContext(c *contextbuild.Context) provider.Context {
	files := make([]provider.FileContext, 0, len(c.Files))
	for _, f := range c.Files {
		files = append(files, provider.FileContext{Path: f.Path, Content: f.Content})
	}
	return provider.Context{SystemPrompt: c.SystemPrompt, Files: files}
}
