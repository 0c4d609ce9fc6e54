package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Observe_TracksStatusTransitions(t *testing.T) {
	m := NewManager()
	m.Register("t1", "")
	m.Observe(Event{Kind: KindTaskStarted, TaskID: "t1", Tier: "local"})

	d, ok := m.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "running", d.Status)
	assert.Equal(t, "local", d.Tier)

	m.Observe(Event{Kind: KindTaskCompleted, TaskID: "t1"})
	d, _ = m.Get("t1")
	assert.Equal(t, "completed", d.Status)
	assert.Equal(t, 100.0, d.Percentage)
}

func TestManager_Observe_UnregisteredTaskAutoRegistersAsRoot(t *testing.T) {
	m := NewManager()
	m.Observe(Event{Kind: KindTaskFailed, TaskID: "ghost", Err: "boom"})
	d, ok := m.Get("ghost")
	require.True(t, ok)
	assert.Equal(t, "failed", d.Status)
	assert.Equal(t, "boom", d.LastError)
}

func TestManager_RebuildOrder_RootsThenPreOrderDescendants(t *testing.T) {
	m := NewManager()
	m.Register("root-a", "")
	m.Register("child-a1", "root-a")
	m.Register("root-b", "")
	m.Register("child-a2", "root-a")

	order := m.RebuildOrder()
	ids := make([]string, len(order))
	for i, d := range order {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"root-a", "child-a1", "child-a2", "root-b"}, ids)
}

func TestManager_RebuildOrder_OrphanAppendedAsRoot(t *testing.T) {
	m := NewManager()
	m.Register("child", "missing-parent")
	order := m.RebuildOrder()
	require.Len(t, order, 1)
	assert.Equal(t, "child", order[0].ID)
}
