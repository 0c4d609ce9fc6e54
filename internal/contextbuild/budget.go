package contextbuild

// TokenBudgetAllocator distributes a total token budget across files by
// priority and relevance, ported line-for-line in semantics from
// original_source/crates/merlin-context/src/pruning.rs's
// TokenBudgetAllocator: 70% reserved for Critical+High (split equally),
// the remainder spread across Medium+Low by relevance-score share, with
// a 100-token floor per file.
type TokenBudgetAllocator struct {
	totalBudget     int
	minPerFile      int
	priorityReserve float64
}

// NewTokenBudgetAllocator constructs an allocator for totalBudget tokens.
func NewTokenBudgetAllocator(totalBudget int) *TokenBudgetAllocator {
	return &TokenBudgetAllocator{totalBudget: totalBudget, minPerFile: 100, priorityReserve: 0.7}
}

// Allocate returns each file's token allocation, keyed by path.
func (a *TokenBudgetAllocator) Allocate(files []scoredFile) map[string]int {
	allocations := make(map[string]int)
	if len(files) == 0 {
		return allocations
	}

	var highPriority, lowPriority []scoredFile
	for _, f := range files {
		if f.priority >= PriorityHigh {
			highPriority = append(highPriority, f)
		} else {
			lowPriority = append(lowPriority, f)
		}
	}

	highBudget := int(float64(a.totalBudget) * a.priorityReserve)
	lowBudget := a.totalBudget - highBudget

	if len(highPriority) > 0 {
		perFile := highBudget / len(highPriority)
		if perFile < a.minPerFile {
			perFile = a.minPerFile
		}
		for _, f := range highPriority {
			allocations[f.path] = perFile
		}
	}

	if len(lowPriority) > 0 {
		var totalScore float64
		for _, f := range lowPriority {
			totalScore += f.relevance
		}
		for _, f := range lowPriority {
			var allocation int
			if totalScore > 0 {
				allocation = int(float64(lowBudget) * (f.relevance / totalScore))
			} else {
				allocation = lowBudget / len(lowPriority)
			}
			if allocation < a.minPerFile {
				allocation = a.minPerFile
			}
			allocations[f.path] = allocation
		}
	}

	return allocations
}
