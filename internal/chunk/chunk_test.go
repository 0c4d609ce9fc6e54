package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens_EmptyString(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
}

func TestEstimateTokens_UsesCharsPerTokenRatio(t *testing.T) {
	s := "abcdefgh" // 8 runes / 4.0 = 2
	assert.Equal(t, 2, EstimateTokens(s))
}

func TestHashContent_Deterministic(t *testing.T) {
	a := HashContent("package main\n")
	b := HashContent("package main\n")
	require.Equal(t, a, b)
}

func TestHashContent_DiffersOnChange(t *testing.T) {
	a := HashContent("package main\n")
	b := HashContent("package main2\n")
	assert.NotEqual(t, a, b)
}
