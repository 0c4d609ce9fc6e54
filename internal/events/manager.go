package events

import (
	"sort"
	"sync"
	"time"
)

// TaskDisplay is the Task Manager's view of one task's lifecycle, built
// up by feeding it events as they're observed.
type TaskDisplay struct {
	ID         string
	ParentID   string
	CreatedAt  time.Time
	Status     string
	Percentage float64
	Tier       string
	LastError  string
	LastDiff   string
}

// Manager maintains the map id -> TaskDisplay plus an insertion-ordered
// list, and supports rebuilding a pre-order display sequence on demand.
// It never blocks a producer: Observe only takes a mutex briefly.
type Manager struct {
	mu        sync.Mutex
	displays  map[string]*TaskDisplay
	insertion []string
}

// NewManager returns an empty Task Manager.
func NewManager() *Manager {
	return &Manager{displays: make(map[string]*TaskDisplay)}
}

// Register records a new task's existence and parent relationship.
// Calling Register twice for the same ID is a no-op.
func (m *Manager) Register(id, parentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.displays[id]; ok {
		return
	}
	m.displays[id] = &TaskDisplay{ID: id, ParentID: parentID, CreatedAt: time.Now(), Status: "pending"}
	m.insertion = append(m.insertion, id)
}

// Observe folds one event into the corresponding TaskDisplay. Events for
// an unregistered task ID are registered as a root on first sight.
func (m *Manager) Observe(e Event) {
	if e.TaskID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.displays[e.TaskID]
	if !ok {
		d = &TaskDisplay{ID: e.TaskID, CreatedAt: time.Now(), Status: "pending"}
		m.displays[e.TaskID] = d
		m.insertion = append(m.insertion, e.TaskID)
	}

	switch e.Kind {
	case KindTaskStarted:
		d.Status = "running"
		d.Tier = e.Tier
	case KindTaskProgress, KindWorkUnitProgress:
		d.Percentage = e.Percentage
	case KindTaskRetrying:
		d.Status = "retrying"
		d.Tier = e.Tier
	case KindTaskCompleted:
		d.Status = "completed"
		d.Percentage = 100
	case KindTaskFailed:
		d.Status = "failed"
		d.LastError = e.Err
	case KindToolCallCompleted:
		if e.Diff != "" {
			d.LastDiff = e.Diff
		}
	}
}

// Get returns a copy of one task's current display state.
func (m *Manager) Get(id string) (TaskDisplay, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.displays[id]
	if !ok {
		return TaskDisplay{}, false
	}
	return *d, true
}

// RebuildOrder returns tasks in pre-order display sequence: roots sorted
// by creation time ascending, each root immediately followed by its
// descendants (also pre-order); tasks whose declared parent doesn't
// exist are treated as orphans and appended at the end.
func (m *Manager) RebuildOrder() []TaskDisplay {
	m.mu.Lock()
	defer m.mu.Unlock()

	children := make(map[string][]string)
	var roots, orphans []string
	for _, id := range m.insertion {
		d := m.displays[id]
		if d.ParentID == "" {
			roots = append(roots, id)
			continue
		}
		if _, ok := m.displays[d.ParentID]; !ok {
			orphans = append(orphans, id)
			continue
		}
		children[d.ParentID] = append(children[d.ParentID], id)
	}

	sort.Slice(roots, func(i, j int) bool {
		return m.displays[roots[i]].CreatedAt.Before(m.displays[roots[j]].CreatedAt)
	})
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool {
			return m.displays[kids[i]].CreatedAt.Before(m.displays[kids[j]].CreatedAt)
		})
	}

	var out []TaskDisplay
	var walk func(id string)
	walk = func(id string) {
		out = append(out, *m.displays[id])
		for _, c := range children[id] {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	for _, o := range orphans {
		walk(o)
	}
	return out
}

// Len returns the number of tasks observed so far.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.displays)
}
