package contextbuild

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"forge/internal/chunk"
	"forge/internal/embedding"
	"forge/internal/logging"
	"forge/internal/retrieval"
)

// pathPattern matches a bare relative file path (e.g. "internal/foo/bar.go").
var pathPattern = regexp.MustCompile(`\b[a-zA-Z0-9_./-]+\.(?:go|py|rs|js|ts|jsx|tsx|md|toml|yaml|yml|json)\b`)

// modulePattern matches a Go-style module path reference (e.g.
// "forge/internal/foo") found in import lines.
var modulePattern = regexp.MustCompile(`\b[a-zA-Z0-9_]+(?:/[a-zA-Z0-9_]+)+\b`)

// DefaultDependencyDepth is how many import hops dependency expansion
// follows by default.
const DefaultDependencyDepth = 1

// DefaultSystemPromptReserveTokens is subtracted from the total budget
// before allocating to files, leaving room for the system prompt itself.
const DefaultSystemPromptReserveTokens = 500

// Builder assembles Contexts for a query.
type Builder struct {
	retriever      *retrieval.Retriever
	root           string
	modulePath     string
	totalBudget    int
	dependencyHops int
	systemPrompt   string

	// importance is the conversation-derived file-importance map; an
	// entry boosts its file's pruning importance (more when accessed
	// within the last hour, and more for each recorded access). Files
	// without an entry keep their plain retrieval relevance.
	importance map[string]FileImportanceEntry
}

// NewBuilder constructs a Builder. root and modulePath locate the Go
// module for dependency-path resolution; totalBudget is the overall
// token budget, of which DefaultSystemPromptReserveTokens is held back
// for the system prompt before files are allocated.
func NewBuilder(retriever *retrieval.Retriever, root, modulePath, systemPrompt string, totalBudget int) *Builder {
	return &Builder{
		retriever:      retriever,
		root:           root,
		modulePath:     modulePath,
		totalBudget:    totalBudget,
		dependencyHops: DefaultDependencyDepth,
		systemPrompt:   systemPrompt,
		importance:     make(map[string]FileImportanceEntry),
	}
}

// SetImportance records a conversation-derived importance entry used by
// the pruning step.
func (b *Builder) SetImportance(entry FileImportanceEntry) {
	b.importance[entry.Path] = entry
}

// Build runs the full pipeline: explicit reference scan, retrieval,
// dependency expansion, prioritization, budget allocation, pruning, and
// final emission.
func (b *Builder) Build(ctx context.Context, query string, explicitFiles []string, history []ConversationMessage) (*Context, error) {
	var files []scoredFile
	seen := make(map[string]bool)

	addFile := func(f scoredFile) {
		if seen[f.path] {
			return
		}
		seen[f.path] = true
		files = append(files, f)
	}

	// Step 1: explicit references (query text, conversation history,
	// and any caller-supplied file list).
	for _, path := range explicitFiles {
		if content, ok := readFile(path); ok {
			addFile(scoredFile{path: path, content: content, priority: PriorityCritical, relevance: 1.0})
		}
	}
	scanText := query
	for _, msg := range history {
		scanText += "\n" + msg.Content
	}
	for _, path := range scanReferences(scanText, b.root) {
		if content, ok := readFile(path); ok {
			addFile(scoredFile{path: path, content: content, priority: PriorityCritical, relevance: 1.0})
		}
	}

	// Step 2: retrieval.
	if b.retriever != nil {
		results, err := b.retriever.Retrieve(ctx, query, 20)
		if err != nil {
			logging.Get(logging.CategoryContext).Warn("context builder: retrieval failed, continuing with explicit references only: %v", err)
		}
		for _, r := range results {
			content, ok := extractResultContent(r)
			if !ok {
				continue
			}
			priority := PriorityMedium
			if embedding.IsSourceFile(r.FilePath) {
				priority = PriorityHigh
			}
			addFile(scoredFile{path: r.FilePath, content: content, priority: priority, relevance: r.CombinedScore})
		}
	}

	// Step 3: dependency expansion.
	graph := NewDependencyGraph(b.root, b.modulePath)
	var included []string
	for _, f := range files {
		graph.AddFile(f.path, f.content)
		included = append(included, f.path)
	}
	for dep := range graph.ExpandWithDependencies(included, b.dependencyHops) {
		if content, ok := readFile(dep); ok {
			addFile(scoredFile{path: dep, content: content, priority: PriorityLow, relevance: 0.1})
		}
	}

	// Step 4: prioritization is already assigned above; apply the
	// conversation-derived importance map as a multiplicative boost on
	// relevance.
	for i := range files {
		files[i].importance = b.fileImportance(files[i])
	}

	// Step 5: token budget allocation.
	allocator := NewTokenBudgetAllocator(b.totalBudget - DefaultSystemPromptReserveTokens)
	allocations := allocator.Allocate(files)

	// Step 6: pruning.
	files = b.prune(files, allocations)

	// Step 7: emit, in priority order (Critical, High, Medium, Low).
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].priority != files[j].priority {
			return files[i].priority > files[j].priority
		}
		return files[i].relevance > files[j].relevance
	})

	out := &Context{SystemPrompt: b.buildSystemPrompt(history)}
	for _, f := range files {
		content := truncateToTokens(f.content, allocations[f.path])
		out.Files = append(out.Files, FileContext{Path: f.path, Content: content})
	}
	return out, nil
}

// fileImportance combines retrieval relevance with the conversation
// access-recency/access-count signal.
func (b *Builder) fileImportance(f scoredFile) float64 {
	entry, ok := b.importance[f.path]
	if !ok {
		return f.relevance
	}
	recencyBoost := 1.0
	if age := time.Since(entry.LastAccess); age < time.Hour {
		recencyBoost = 1.5
	}
	accessBoost := 1.0 + float64(entry.AccessCount)*0.05
	return f.relevance * recencyBoost * accessBoost
}

// prune drops files from lowest importance upward until the total
// estimated token count fits the budget.
func (b *Builder) prune(files []scoredFile, allocations map[string]int) []scoredFile {
	total := 0
	for _, f := range files {
		total += chunk.EstimateTokens(f.content)
	}
	if total <= b.totalBudget {
		return files
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].importance < files[j].importance })

	kept := make([]scoredFile, 0, len(files))
	for _, f := range files {
		if f.priority == PriorityCritical {
			kept = append(kept, f)
			continue
		}
		tokens := chunk.EstimateTokens(f.content)
		if total <= b.totalBudget {
			kept = append(kept, f)
			continue
		}
		total -= tokens
		logging.Get(logging.CategoryContext).Debug("context builder: pruned %s (importance=%.3f) to stay within budget", f.path, f.importance)
	}
	return kept
}

func (b *Builder) buildSystemPrompt(history []ConversationMessage) string {
	if len(history) == 0 {
		return b.systemPrompt
	}
	var sb strings.Builder
	sb.WriteString(b.systemPrompt)
	sb.WriteString("\n\n--- conversation history ---\n")
	for _, msg := range history {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("--- end conversation history ---\n")
	return sb.String()
}

// scanReferences finds path-shaped and module-path-shaped references in
// text and resolves them to existing files under root.
func scanReferences(text, root string) []string {
	var found []string
	for _, m := range pathPattern.FindAllString(text, -1) {
		found = append(found, m)
	}
	for _, m := range modulePattern.FindAllString(text, -1) {
		found = append(found, m)
	}

	seen := make(map[string]bool)
	var resolved []string
	for _, ref := range found {
		candidates := []string{ref}
		if !strings.HasSuffix(ref, ".go") {
			candidates = append(candidates, ref+".go")
		}
		for _, c := range candidates {
			full := c
			if !strings.HasPrefix(c, root) {
				full = root + "/" + c
			}
			if seen[full] {
				continue
			}
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				seen[full] = true
				resolved = append(resolved, full)
			}
		}
	}
	return resolved
}

func readFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// extractResultContent reads a retrieval result's file and extracts the
// context-expanded window around the matched span.
func extractResultContent(r retrieval.RetrievalResult) (string, bool) {
	data, err := os.ReadFile(r.FilePath)
	if err != nil {
		return "", false
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	windowStart, windowEnd := expandForContext(r.FilePath, r.StartLine, r.EndLine, len(lines))
	return retrieval.ExtractWithContext(r.FilePath, r.StartLine, r.EndLine, windowStart, windowEnd, lines), true
}

func expandForContext(path string, start, end, totalLines int) (int, int) {
	const contextLines = 50
	if !embedding.IsSourceFile(path) {
		return start, end
	}
	ws := start - contextLines
	if ws < 1 {
		ws = 1
	}
	we := end + contextLines
	if we > totalLines {
		we = totalLines
	}
	return ws, we
}

// truncateToTokens trims content to approximately the given token
// allocation, cutting at a line boundary where possible.
func truncateToTokens(content string, tokenBudget int) string {
	if tokenBudget <= 0 || chunk.EstimateTokens(content) <= tokenBudget {
		return content
	}
	lines := strings.Split(content, "\n")
	var sb strings.Builder
	for _, line := range lines {
		candidate := sb.String() + line + "\n"
		if chunk.EstimateTokens(candidate) > tokenBudget && sb.Len() > 0 {
			break
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
