// Package provider implements the Provider Registry & Tier Model: an
// ordered Local < Mid < Premium tier enum, a common ProviderHandle
// contract, and a Registry that resolves a tier to a concrete handle.
package provider

import (
	"context"

	"forge/internal/chunk"
	"forge/internal/model"
)

// Tier is an ordered model-quality/cost tier.
type Tier int

const (
	Local Tier = iota
	Mid
	Premium
)

// String renders the tier name used in logs and metrics.
func (t Tier) String() string {
	switch t {
	case Local:
		return "local"
	case Mid:
		return "mid"
	case Premium:
		return "premium"
	default:
		return "unknown"
	}
}

// NextUp returns the next tier up the escalation ladder and whether one
// exists. Premium has no escalation.
func (t Tier) NextUp() (Tier, bool) {
	switch t {
	case Local:
		return Mid, true
	case Mid:
		return Premium, true
	default:
		return Premium, false
	}
}

// Context is the minimal shape a provider needs to generate a response;
// the caller (Routing Orchestrator) supplies the assembled system prompt
// and file contents from the Context Builder.
type Context struct {
	SystemPrompt string
	Files        []FileContext
}

// FileContext is a single file's path and content, mirroring
// internal/contextbuild.FileContext without creating an import cycle
// between contextbuild and provider.
type FileContext struct {
	Path    string
	Content string
}

// Handle is the common contract every tier's provider implements.
type Handle interface {
	Name() string
	Generate(ctx context.Context, query string, c Context) (model.Response, error)
	EstimateCost(c Context) float64
	IsAvailable() bool
}

// Registry resolves a Tier to its Handle.
type Registry struct {
	handles map[Tier]Handle
}

// NewRegistry builds an empty Registry; handles are installed with Register.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[Tier]Handle)}
}

// Register installs h as the handle for tier.
func (r *Registry) Register(tier Tier, h Handle) {
	r.handles[tier] = h
}

// Get returns the handle registered for tier, or false if none was
// registered.
func (r *Registry) Get(tier Tier) (Handle, bool) {
	h, ok := r.handles[tier]
	return h, ok
}

// Available reports whether tier has a registered handle that is
// currently reachable.
func (r *Registry) Available(tier Tier) bool {
	h, ok := r.handles[tier]
	return ok && h.IsAvailable()
}

// WithMockProvider installs a scriptable fake at tier, for routing-
// strategy tests.
func (r *Registry) WithMockProvider(tier Tier, h Handle) {
	r.Register(tier, h)
}

// estimateContextTokens sums the estimated token count of a Context's
// system prompt and file contents, reusing the Chunker's token model
// rather than hand-rolling a second estimator.
func estimateContextTokens(c Context) int {
	total := chunk.EstimateTokens(c.SystemPrompt)
	for _, f := range c.Files {
		total += chunk.EstimateTokens(f.Content)
	}
	return total
}
