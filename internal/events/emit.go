package events

// Convenience emitters, one per Kind, so producers never hand-assemble
// an Event literal with the wrong field set.

func (c *Channel) TaskStarted(taskID, tier string) {
	c.Emit(Event{Kind: KindTaskStarted, TaskID: taskID, Tier: tier})
}

func (c *Channel) TaskProgress(taskID string, percentage float64) {
	c.Emit(Event{Kind: KindTaskProgress, TaskID: taskID, Percentage: percentage})
}

func (c *Channel) TaskOutput(taskID, output string) {
	c.Emit(Event{Kind: KindTaskOutput, TaskID: taskID, Output: output})
}

func (c *Channel) TaskStepStarted(taskID, step string) {
	c.Emit(Event{Kind: KindTaskStepStarted, TaskID: taskID, Step: step})
}

func (c *Channel) TaskStepCompleted(taskID, step string) {
	c.Emit(Event{Kind: KindTaskStepCompleted, TaskID: taskID, Step: step})
}

func (c *Channel) TaskStepFailed(taskID, step, errMsg string) {
	c.Emit(Event{Kind: KindTaskStepFailed, TaskID: taskID, Step: step, Err: errMsg})
}

func (c *Channel) ToolCallStarted(taskID, toolName, args string) {
	c.Emit(Event{Kind: KindToolCallStarted, TaskID: taskID, ToolName: toolName, Args: args})
}

func (c *Channel) ToolCallCompleted(taskID, toolName, result string) {
	c.Emit(Event{Kind: KindToolCallCompleted, TaskID: taskID, ToolName: toolName, Result: result})
}

// ToolCallCompletedWithDiff is ToolCallCompleted plus a rendered unified
// diff of a file change the call made, for consumers (the reference
// TUI) that display it alongside the task's status line.
func (c *Channel) ToolCallCompletedWithDiff(taskID, toolName, result, diffText string) {
	c.Emit(Event{Kind: KindToolCallCompleted, TaskID: taskID, ToolName: toolName, Result: result, Diff: diffText})
}

func (c *Channel) TaskCompleted(taskID, tier string) {
	c.Emit(Event{Kind: KindTaskCompleted, TaskID: taskID, Tier: tier})
}

func (c *Channel) TaskFailed(taskID, tier, errMsg string) {
	c.Emit(Event{Kind: KindTaskFailed, TaskID: taskID, Tier: tier, Err: errMsg})
}

func (c *Channel) TaskRetrying(taskID, tier string, attempt int) {
	c.Emit(Event{Kind: KindTaskRetrying, TaskID: taskID, Tier: tier, Attempt: attempt})
}

func (c *Channel) WorkUnitStarted(taskID string) {
	c.Emit(Event{Kind: KindWorkUnitStarted, TaskID: taskID})
}

func (c *Channel) WorkUnitProgress(taskID string, percentage float64) {
	c.Emit(Event{Kind: KindWorkUnitProgress, TaskID: taskID, Percentage: percentage})
}

func (c *Channel) SystemMessage(level Level, message string) {
	c.Emit(Event{Kind: KindSystemMessage, Level: level, Message: message})
}

func (c *Channel) EmbeddingProgress(current, total int) {
	c.Emit(Event{Kind: KindEmbeddingProgress, Current: current, Total: total})
}
