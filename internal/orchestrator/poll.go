package orchestrator

import "time"

// pollInterval is the scheduling loop's polling granularity, per §5:
// short enough that UI events keep pumping even while a provider call
// is slow, without busy-waiting.
const pollInterval = 10 * time.Millisecond

func pollTicker() *time.Ticker {
	return time.NewTicker(pollInterval)
}
