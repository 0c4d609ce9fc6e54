package orchestrator

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"forge/internal/task"
)

// ExecuteTasks builds a dependency graph from tasks and executes it
// under the orchestrator's concurrency limit. Start order is
// deterministic (stable sort by task ID among the ready set);
// completion order is not. Returned TaskResults are re-sorted to
// task-id order before return.
func (o *Orchestrator) ExecuteTasks(ctx context.Context, tasks []task.Task) ([]TaskResult, error) {
	graph := task.NewGraph(tasks)
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return o.ExecuteGraph(ctx, graph)
}

// ExecuteGraph runs the semaphore-gated scheduling loop: while there
// exist un-started ready tasks and a permit is available, start one;
// when any finishes, release its permit and repeat. The loop terminates
// when every task has completed.
func (o *Orchestrator) ExecuteGraph(ctx context.Context, graph *task.Graph) ([]TaskResult, error) {
	maxConcurrent := o.cfg.MaxConcurrentTasks
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	sem := semaphore.NewWeighted(int64(maxConcurrent))

	var (
		mu         sync.Mutex
		completed  = make(map[string]bool)
		inFlight   = make(map[string]task.Task)
		results    []TaskResult
		wg         sync.WaitGroup
	)

	for {
		mu.Lock()
		if len(completed) == graph.Len() {
			mu.Unlock()
			break
		}

		ready := graph.ReadyTasks(completed)
		sort.Slice(ready, func(i, j int) bool { return ready[i].ID < ready[j].ID })

		var startable []task.Task
		for _, t := range ready {
			if _, started := inFlight[t.ID]; started {
				continue
			}
			if o.cfg.EnableConflictDetection && conflictsWithInFlight(t, inFlight) {
				continue
			}
			if o.cfg.EnableConflictDetection {
				clash := false
				for _, s := range startable {
					if task.Conflicts(t, s) {
						clash = true
						break
					}
				}
				if clash {
					continue
				}
			}
			startable = append(startable, t)
		}
		inFlightLen := len(inFlight)
		mu.Unlock()

		if len(startable) == 0 && inFlightLen == 0 {
			// Nothing ready, nothing running: remaining tasks can never
			// become ready (unsatisfiable dependency or conflict deadlock).
			break
		}

		for _, t := range startable {
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return sortedByTaskID(results), err
			}

			mu.Lock()
			inFlight[t.ID] = t
			mu.Unlock()

			wg.Add(1)
			go func(t task.Task) {
				defer wg.Done()
				defer sem.Release(1)

				res := o.ExecuteTask(ctx, t)

				mu.Lock()
				completed[t.ID] = true
				delete(inFlight, t.ID)
				results = append(results, res)
				mu.Unlock()
			}(t)
		}

		// Block until at least one in-flight task completes before
		// re-evaluating the ready set, per §5's ~10ms poll discipline.
		waitForProgress(ctx, &mu, completed, graph.Len())
	}

	wg.Wait()
	return sortedByTaskID(results), nil
}

func conflictsWithInFlight(candidate task.Task, inFlight map[string]task.Task) bool {
	for _, running := range inFlight {
		if task.Conflicts(candidate, running) {
			return true
		}
	}
	return false
}

func waitForProgress(ctx context.Context, mu *sync.Mutex, completed map[string]bool, total int) {
	before := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(completed)
	}()

	ticker := pollTicker()
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			after := len(completed)
			mu.Unlock()
			if after != before || after == total {
				return
			}
		}
	}
}

func sortedByTaskID(results []TaskResult) []TaskResult {
	sort.Slice(results, func(i, j int) bool { return results[i].TaskID < results[j].TaskID })
	return results
}
