package task

// CheckDepth enforces MaxDecompositionDepth against the number of
// ancestor hops from a task to its root.
func CheckDepth(depth int) error {
	if depth > MaxDecompositionDepth {
		return &LimitError{Limit: "decomposition_depth", Value: depth, Max: MaxDecompositionDepth}
	}
	return nil
}

// CheckSubtaskCount enforces MaxSubtasksPerTask.
func CheckSubtaskCount(subtaskCount int) error {
	if subtaskCount > MaxSubtasksPerTask {
		return &LimitError{Limit: "subtasks_per_task", Value: subtaskCount, Max: MaxSubtasksPerTask}
	}
	return nil
}

// CheckCheckpointCount enforces MaxCheckpoints.
func CheckCheckpointCount(checkpointCount int) error {
	if checkpointCount > MaxCheckpoints {
		return &LimitError{Limit: "checkpoints", Value: checkpointCount, Max: MaxCheckpoints}
	}
	return nil
}

// Depth computes a task's ancestor-hop depth by following ParentID
// through the given lookup.
func Depth(id string, lookup map[string]Task) int {
	depth := 0
	cur, ok := lookup[id]
	for ok && cur.ParentID != "" {
		depth++
		cur, ok = lookup[cur.ParentID]
	}
	return depth
}
