package task

import "fmt"

// CycleError reports that a Task Graph contains a dependency cycle.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("task graph contains a cycle: %v", e.Cycle)
}

// Graph is a directed acyclic graph of Tasks; edges are declared
// dependencies (Task.DependsOn).
type Graph struct {
	tasks map[string]Task
	order []string
}

// NewGraph builds a Graph from tasks. An edge endpoint referencing a
// task outside the graph is not validated here — callers that need that
// invariant should call Validate.
func NewGraph(tasks []Task) *Graph {
	g := &Graph{tasks: make(map[string]Task, len(tasks))}
	for _, t := range tasks {
		g.tasks[t.ID] = t
		g.order = append(g.order, t.ID)
	}
	return g
}

// Validate runs cycle detection and edge-endpoint validation. On
// detecting a cycle, the whole graph is rejected.
func (g *Graph) Validate() error {
	for _, t := range g.tasks {
		for _, dep := range t.DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				return fmt.Errorf("task %s depends on unknown task %s", t.ID, dep)
			}
		}
	}
	if cycle := g.findCycle(); cycle != nil {
		return &CycleError{Cycle: cycle}
	}
	return nil
}

// findCycle runs a DFS with a recursion-stack, returning the first cycle
// found as a slice of task IDs, or nil if the graph is acyclic.
func (g *Graph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.tasks))
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		for _, dep := range g.tasks[id].DependsOn {
			switch color[dep] {
			case gray:
				// found the cycle: trim path to where dep first appears
				for i, p := range path {
					if p == dep {
						cycle = append([]string{}, path[i:]...)
						cycle = append(cycle, dep)
						break
					}
				}
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, id := range g.order {
		if color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return nil
}

// ReadyTasks returns the tasks whose dependencies are all present in
// completed, excluding tasks already in completed themselves.
func (g *Graph) ReadyTasks(completed map[string]bool) []Task {
	var ready []Task
	for _, id := range g.order {
		if completed[id] {
			continue
		}
		t := g.tasks[id]
		allDone := true
		for _, dep := range t.DependsOn {
			if !completed[dep] {
				allDone = false
				break
			}
		}
		if allDone {
			ready = append(ready, t)
		}
	}
	return ready
}

// Conflicts reports whether a's and b's RequiredFiles share at least one
// file, the write-set conflict rule.
func Conflicts(a, b Task) bool {
	if len(a.RequiredFiles) == 0 || len(b.RequiredFiles) == 0 {
		return false
	}
	files := make(map[string]bool, len(a.RequiredFiles))
	for _, f := range a.RequiredFiles {
		files[f] = true
	}
	for _, f := range b.RequiredFiles {
		if files[f] {
			return true
		}
	}
	return false
}

// ConflictingPairs returns every pair of tasks among candidates whose
// write-sets intersect; the scheduler refuses to run such pairs
// concurrently.
func ConflictingPairs(candidates []Task) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if Conflicts(candidates[i], candidates[j]) {
				pairs = append(pairs, [2]string{candidates[i].ID, candidates[j].ID})
			}
		}
	}
	return pairs
}

// Task looks up a task by ID.
func (g *Graph) Task(id string) (Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// Len reports the number of tasks in the graph.
func (g *Graph) Len() int { return len(g.tasks) }
