// Package task implements the Task Analyzer & Graph: decomposing a
// free-form request into Tasks, building a dependency graph over them,
// and detecting cycles and file-write conflicts before execution.
package task

import "fmt"

// Status is a Subtask's runtime state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRetrying   Status = "retrying"
)

// SubtaskStatus is the smaller enum a Subtask's own status ranges over.
type SubtaskStatus string

const (
	SubtaskPending    SubtaskStatus = "pending"
	SubtaskInProgress SubtaskStatus = "in_progress"
	SubtaskCompleted  SubtaskStatus = "completed"
	SubtaskFailed     SubtaskStatus = "failed"
)

// Task is a process-unique unit of work the Routing Orchestrator executes.
type Task struct {
	ID            string
	Description   string
	Difficulty    int // 1-5
	RequiredFiles []string
	ParentID      string // empty means this Task is a root
	DependsOn     []string
	WorkUnit      *WorkUnit
}

// IsRoot reports whether t has no parent.
func (t Task) IsRoot() bool { return t.ParentID == "" }

// Subtask is one leaf of a Task's decomposition.
type Subtask struct {
	ID           string
	Description  string
	Difficulty   int
	Status       SubtaskStatus
	Result       string
	Dependencies []string
}

// WorkUnit is the runtime state of a decomposed Task.
type WorkUnit struct {
	Subtasks           []Subtask
	RetryCount         int
	TierUsed           string
	ProgressPercentage float64
	Status             Status
}

// RecalculateProgress sets ProgressPercentage from the ratio of completed
// subtasks, 0 when there are none.
func (w *WorkUnit) RecalculateProgress() {
	if len(w.Subtasks) == 0 {
		w.ProgressPercentage = 0
		return
	}
	completed := 0
	for _, s := range w.Subtasks {
		if s.Status == SubtaskCompleted {
			completed++
		}
	}
	w.ProgressPercentage = 100 * float64(completed) / float64(len(w.Subtasks))
}

// LimitError reports which configured limit was exceeded; exceeding any
// limit is a hard failure.
type LimitError struct {
	Limit string
	Value int
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("task limit exceeded: %s is %d, max %d", e.Limit, e.Value, e.Max)
}

// Default limits.
const (
	MaxDecompositionDepth = 5
	MaxSubtasksPerTask    = 10
	MaxCheckpoints        = 100
)
