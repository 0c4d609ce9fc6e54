package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Validate_AcyclicPasses(t *testing.T) {
	g := NewGraph([]Task{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"b"}},
	})
	assert.NoError(t, g.Validate())
}

func TestGraph_Validate_DetectsCycle(t *testing.T) {
	g := NewGraph([]Task{
		{ID: "a", DependsOn: []string{"c"}},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"b"}},
	})
	err := g.Validate()
	require.Error(t, err)
	var cycleErr *CycleError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestGraph_Validate_RejectsUnknownDependency(t *testing.T) {
	g := NewGraph([]Task{{ID: "a", DependsOn: []string{"missing"}}})
	assert.Error(t, g.Validate())
}

func TestGraph_ReadyTasks_ReturnsOnlyTasksWithSatisfiedDeps(t *testing.T) {
	g := NewGraph([]Task{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
		{ID: "c", DependsOn: []string{"a", "b"}},
	})

	ready := g.ReadyTasks(map[string]bool{})
	require.Len(t, ready, 1)
	assert.Equal(t, "a", ready[0].ID)

	ready = g.ReadyTasks(map[string]bool{"a": true})
	require.Len(t, ready, 1)
	assert.Equal(t, "b", ready[0].ID)

	ready = g.ReadyTasks(map[string]bool{"a": true, "b": true})
	require.Len(t, ready, 1)
	assert.Equal(t, "c", ready[0].ID)
}

func TestConflicts_IntersectingWriteSets(t *testing.T) {
	a := Task{ID: "a", RequiredFiles: []string{"x.go", "y.go"}}
	b := Task{ID: "b", RequiredFiles: []string{"y.go", "z.go"}}
	assert.True(t, Conflicts(a, b))
}

func TestConflicts_DisjointWriteSets(t *testing.T) {
	a := Task{ID: "a", RequiredFiles: []string{"x.go"}}
	b := Task{ID: "b", RequiredFiles: []string{"z.go"}}
	assert.False(t, Conflicts(a, b))
}

func TestConflictingPairs_FindsAllIntersectingPairs(t *testing.T) {
	tasks := []Task{
		{ID: "a", RequiredFiles: []string{"x.go"}},
		{ID: "b", RequiredFiles: []string{"x.go"}},
		{ID: "c", RequiredFiles: []string{"z.go"}},
	}
	pairs := ConflictingPairs(tasks)
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]string{"a", "b"}, pairs[0])
}
