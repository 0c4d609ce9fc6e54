// Package model holds the small set of data shapes shared across the
// Response Cache, Provider Registry, Routing Orchestrator and Metrics
// Collector, so none of those packages needs to import another just to
// pass a response around.
package model

// TokenUsage records token accounting for a single provider call.
type TokenUsage struct {
	Input      int
	Output     int
	CacheRead  int
	CacheWrite int
}

// Response is a completed provider reply, cacheable and metric-worthy.
type Response struct {
	Text       string
	Confidence float64
	Tokens     TokenUsage
	Provider   string
	LatencyMS  int64
}
