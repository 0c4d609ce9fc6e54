package contextbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceScorer_KeywordMatching(t *testing.T) {
	scorer := NewRelevanceScorer("go async worker")
	score := scorer.Score("worker.go", "func asyncWorker() { go doWork() }")
	assert.Greater(t, score, 0.5)
}

func TestRelevanceScorer_ExtensionPreference(t *testing.T) {
	scorer := NewRelevanceScorer("test")
	goScore := scorer.Score("test.go", "")
	otherScore := scorer.Score("test.xyz", "")
	assert.Greater(t, goScore, otherScore)
}

func TestRelevanceScorer_ChurnMarkers(t *testing.T) {
	scorer := NewRelevanceScorer("x")
	withTodo := scorer.Score("a.go", "// TODO fix this")
	without := scorer.Score("a.go", "// done")
	assert.Greater(t, withTodo, without)
}

func TestRelevanceScorer_ScoreClampedToOne(t *testing.T) {
	scorer := NewRelevanceScorer("worker async go task run")
	score := scorer.Score("small.go", "worker async go task run TODO FIXME HACK")
	assert.LessOrEqual(t, score, 1.0)
}
