// Package contextbuild assembles a model-ready Context from a query: it
// resolves explicit file references, invokes the Hybrid Retriever,
// expands declared dependencies, assigns priorities, allocates a token
// budget, and prunes down to that budget.
package contextbuild

import "time"

// Priority classifies a file's origin for budget allocation purposes.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// FileContext is one file's selected content, ready for inclusion in a
// Context's prompt.
type FileContext struct {
	Path    string
	Content string
}

// Context is the finalized input to a model provider.
type Context struct {
	SystemPrompt string
	Files        []FileContext
}

// ConversationMessage is one turn of the bounded conversation history the
// Context Builder may fold into the system prompt.
type ConversationMessage struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// FileImportanceEntry backs the access-recency/access-count component of
// the pruning importance score, alongside retrieval relevance.
type FileImportanceEntry struct {
	Path        string
	Score       float64
	LastAccess  time.Time
	AccessCount int
}

// scoredFile is the builder's internal working type: a candidate file
// with every signal needed to prioritize, budget, and prune it.
type scoredFile struct {
	path       string
	content    string
	relevance  float64
	priority   Priority
	importance float64
}
