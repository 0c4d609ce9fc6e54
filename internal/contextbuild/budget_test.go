package contextbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBudgetAllocator_CriticalGetsMoreThanLow(t *testing.T) {
	allocator := NewTokenBudgetAllocator(1000)
	files := []scoredFile{
		{path: "critical.go", relevance: 0.9, priority: PriorityCritical},
		{path: "low.go", relevance: 0.3, priority: PriorityLow},
	}
	allocations := allocator.Allocate(files)
	assert.Greater(t, allocations["critical.go"], allocations["low.go"])
}

func TestTokenBudgetAllocator_RespectsMinPerFile(t *testing.T) {
	allocator := NewTokenBudgetAllocator(150)
	files := []scoredFile{
		{path: "a.go", relevance: 0.01, priority: PriorityLow},
		{path: "b.go", relevance: 0.01, priority: PriorityLow},
		{path: "c.go", relevance: 0.01, priority: PriorityLow},
	}
	allocations := allocator.Allocate(files)
	for _, v := range allocations {
		assert.GreaterOrEqual(t, v, 100)
	}
}

func TestTokenBudgetAllocator_EmptyFiles(t *testing.T) {
	allocator := NewTokenBudgetAllocator(1000)
	assert.Empty(t, allocator.Allocate(nil))
}

func TestTokenBudgetAllocator_LowPriorityWeightedByRelevance(t *testing.T) {
	allocator := NewTokenBudgetAllocator(1000)
	files := []scoredFile{
		{path: "a.go", relevance: 0.8, priority: PriorityLow},
		{path: "b.go", relevance: 0.2, priority: PriorityLow},
	}
	allocations := allocator.Allocate(files)
	assert.Greater(t, allocations["a.go"], allocations["b.go"])
}
