package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_TrivialRequestYieldsSingleTask(t *testing.T) {
	tasks := Analyze("fix the typo in the readme")
	require.Len(t, tasks, 1)
	assert.Equal(t, "fix the typo in the readme", tasks[0].Description)
}

func TestAnalyze_NumberedListYieldsMultipleTasks(t *testing.T) {
	request := "Do the following:\n1. add a new endpoint\n2. write tests for it\n3. update the docs"
	tasks := Analyze(request)
	require.Len(t, tasks, 3)
	assert.Equal(t, "add a new endpoint", tasks[0].Description)
	assert.Equal(t, "write tests for it", tasks[1].Description)
}

func TestAnalyze_ConjunctionSplitsTasks(t *testing.T) {
	request := "refactor internal/cache/cache.go and rewrite internal/cache/cache_test.go and migrate the schema to v2 with several more supporting words to exceed the length threshold"
	tasks := Analyze(request)
	assert.Greater(t, len(tasks), 1)
}

func TestAnalyze_ExtractsRequiredFiles(t *testing.T) {
	tasks := Analyze("fix the bug in internal/cache/cache.go please")
	require.Len(t, tasks, 1)
	assert.Contains(t, tasks[0].RequiredFiles, "internal/cache/cache.go")
}

func TestScoreDifficulty_RefactorScoresHigherThanRename(t *testing.T) {
	refactor := scoreDifficulty("refactor the entire module architecture")
	rename := scoreDifficulty("rename a variable")
	assert.Greater(t, refactor, rename)
}

func TestScoreDifficulty_ClampedToRange(t *testing.T) {
	assert.GreaterOrEqual(t, scoreDifficulty("rename typo"), 1)
	assert.LessOrEqual(t, scoreDifficulty("refactor migrate rewrite redesign overhaul architecture"), 5)
}
