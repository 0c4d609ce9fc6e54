package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDepth_WithinLimitPasses(t *testing.T) {
	assert.NoError(t, CheckDepth(MaxDecompositionDepth))
}

func TestCheckDepth_ExceedsLimitFails(t *testing.T) {
	err := CheckDepth(MaxDecompositionDepth + 1)
	assert.Error(t, err)
}

func TestCheckSubtaskCount_ExceedsLimitFails(t *testing.T) {
	assert.Error(t, CheckSubtaskCount(MaxSubtasksPerTask+1))
}

func TestDepth_FollowsParentChain(t *testing.T) {
	lookup := map[string]Task{
		"root": {ID: "root"},
		"mid":  {ID: "mid", ParentID: "root"},
		"leaf": {ID: "leaf", ParentID: "mid"},
	}
	assert.Equal(t, 2, Depth("leaf", lookup))
	assert.Equal(t, 0, Depth("root", lookup))
}

func TestWorkUnit_RecalculateProgress(t *testing.T) {
	w := &WorkUnit{Subtasks: []Subtask{
		{Status: SubtaskCompleted},
		{Status: SubtaskCompleted},
		{Status: SubtaskPending},
		{Status: SubtaskFailed},
	}}
	w.RecalculateProgress()
	assert.Equal(t, 50.0, w.ProgressPercentage)
}

func TestWorkUnit_RecalculateProgress_EmptyIsZero(t *testing.T) {
	w := &WorkUnit{}
	w.RecalculateProgress()
	assert.Equal(t, 0.0, w.ProgressPercentage)
}
