package orchestrator

import (
	"forge/internal/provider"
	"forge/internal/task"
)

// Router chooses an initial tier for a task. StrategyRouter is the
// built-in heuristic implementation; tests may substitute a stub.
type Router interface {
	Route(t task.Task) provider.Tier
}

// StrategyRouter maps a task's difficulty score onto a tier, skipping
// any tier config marks disabled and falling back to the next enabled
// tier up. If that tier and every tier above it are disabled, it returns
// the highest tier it reached (Premium) even though that tier is
// disabled; the orchestrator then fails the task when no provider is
// registered for that tier.
type StrategyRouter struct {
	localEnabled, midEnabled, premiumEnabled bool
}

// NewStrategyRouter builds a StrategyRouter from the tiers config flags.
func NewStrategyRouter(localEnabled, midEnabled, premiumEnabled bool) *StrategyRouter {
	return &StrategyRouter{localEnabled: localEnabled, midEnabled: midEnabled, premiumEnabled: premiumEnabled}
}

// Route implements Router.
func (r *StrategyRouter) Route(t task.Task) provider.Tier {
	initial := tierForDifficulty(t.Difficulty)
	return r.firstEnabledFrom(initial)
}

func tierForDifficulty(difficulty int) provider.Tier {
	switch {
	case difficulty <= 2:
		return provider.Local
	case difficulty <= 4:
		return provider.Mid
	default:
		return provider.Premium
	}
}

func (r *StrategyRouter) enabled(tier provider.Tier) bool {
	switch tier {
	case provider.Local:
		return r.localEnabled
	case provider.Mid:
		return r.midEnabled
	case provider.Premium:
		return r.premiumEnabled
	default:
		return false
	}
}

func (r *StrategyRouter) firstEnabledFrom(tier provider.Tier) provider.Tier {
	current := tier
	for {
		if r.enabled(current) {
			return current
		}
		next, ok := current.NextUp()
		if !ok {
			return current
		}
		current = next
	}
}
