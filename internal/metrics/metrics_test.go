package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forge/internal/model"
)

func TestEstimateCost_MatchesKnownTierRates(t *testing.T) {
	tokens := model.TokenUsage{Input: 1000, Output: 500}
	cases := map[string]float64{
		"local":   0.0,
		"mid":     0.00082,
		"premium": 0.0105,
	}
	for tier, want := range cases {
		got := EstimateCost(tier, tokens, DefaultRates)
		assert.InDelta(t, want, got, 0.0001, "tier %s", tier)
	}
}

func TestCollector_Record_TracksLenAndCost(t *testing.T) {
	c := NewCollector()
	for _, tier := range []string{"local", "mid", "premium"} {
		c.Record(NewRequestMetrics("q", tier, 100, model.TokenUsage{Input: 1000, Output: 500}, true, false, DefaultRates))
	}
	require.Equal(t, 3, c.Len())
}

func TestBuildReport_ComputesRatesAndDistribution(t *testing.T) {
	var records []RequestMetrics
	for i := 0; i < 10; i++ {
		tier := "local"
		if i%3 == 1 {
			tier = "mid"
		} else if i%3 == 2 {
			tier = "premium"
		}
		records = append(records, NewRequestMetrics("q", tier, int64(100+i), model.TokenUsage{}, i != 0, i%5 == 0, DefaultRates))
	}

	report := BuildReport(records)
	assert.Equal(t, 10, report.TotalRequests)
	assert.InDelta(t, 0.9, report.SuccessRate, 0.01)
	assert.InDelta(t, 0.2, report.EscalationRate, 0.01)
	assert.Len(t, report.TierDistribution, 3)
	assert.Greater(t, report.AvgLatencyMS, int64(0))
}

func TestPercentile_P50AndP95OnSortedInput(t *testing.T) {
	latencies := []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	assert.Equal(t, int64(60), percentile(latencies, 50))
	assert.Equal(t, int64(100), percentile(latencies, 95))
}

func TestBuildReport_EmptyRecordsYieldsZeroReport(t *testing.T) {
	report := BuildReport(nil)
	assert.Equal(t, 0, report.TotalRequests)
	assert.Equal(t, 0.0, report.SuccessRate)
}
