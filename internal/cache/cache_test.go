package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forge/internal/model"
)

func testConfig() Config {
	return Config{Enabled: true, TTL: time.Hour, MaxSizeMB: 10, SimilarityThreshold: 0.95}
}

func TestCache_PutGet_RoundTrip(t *testing.T) {
	c := New(testConfig())
	resp := model.Response{Text: "hello", Provider: "test"}
	c.Put("q1", resp)

	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Text)
}

func TestCache_Get_MissReturnsFalse(t *testing.T) {
	c := New(testConfig())
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Put_DisabledIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := New(cfg)
	c.Put("q1", model.Response{Text: "x"})
	assert.Equal(t, 0, c.Len())
}

func TestCache_Get_ExpiredEntryIsInvisible(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = time.Nanosecond
	c := New(cfg)
	c.Put("q1", model.Response{Text: "x"})
	time.Sleep(time.Millisecond)

	_, ok := c.Get("q1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Put_EvictsLRUWhenOverSize(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSizeMB = 1 // 1,000,000-byte ceiling: q1 alone fits, q1 plus q2 does not
	c := New(cfg)

	big := make([]byte, 999_900)
	for i := range big {
		big[i] = 'x'
	}
	c.Put("q1", model.Response{Text: string(big)})
	c.Put("q2", model.Response{Text: "small"})

	_, q1Present := c.Get("q1")
	assert.False(t, q1Present, "oldest entry should have been evicted to make room for q2")
	_, q2Present := c.Get("q2")
	assert.True(t, q2Present)
}

func TestCache_SimilarityGet_MatchesNearDuplicateQuery(t *testing.T) {
	c := New(testConfig())
	c.Put("how do I parse a config file", model.Response{Text: "answer"})

	got, ok := c.SimilarityGet("how do I parse a config file?")
	require.True(t, ok)
	assert.Equal(t, "answer", got.Text)
}

func TestCache_SimilarityGet_BelowThresholdMisses(t *testing.T) {
	c := New(testConfig())
	c.Put("how do I parse a config file", model.Response{Text: "answer"})

	_, ok := c.SimilarityGet("what is the weather today")
	assert.False(t, ok)
}

func TestCache_SizeBytes_NeverExceedsMaxSizeMB(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSizeMB = 1
	c := New(cfg)

	for i := 0; i < 100; i++ {
		c.Put(string(rune('a'+i%26))+string(rune(i)), model.Response{Text: "response content padding out the estimated size a bit"})
	}
	assert.LessOrEqual(t, c.SizeBytes(), cfg.MaxSizeMB*1_000_000)
}
