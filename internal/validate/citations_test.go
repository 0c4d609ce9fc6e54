package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCitations_ParsesLineAndRange(t *testing.T) {
	citations := ExtractCitations("See src/lib.go:10 and src/main.go:20-30 for details.")
	require.Len(t, citations, 2)
	assert.Equal(t, "src/lib.go", citations[0].FilePath)
	assert.Equal(t, 10, citations[0].StartLine)
	assert.Equal(t, 0, citations[0].EndLine)
	assert.Equal(t, "src/main.go", citations[1].FilePath)
	assert.Equal(t, 20, citations[1].StartLine)
	assert.Equal(t, 30, citations[1].EndLine)
}

func TestCitationsStage_UnenforcedNoCitationsStillPasses(t *testing.T) {
	stage := NewCitationsStage(false, true)
	res, err := stage.Validate(context.Background(), "a response with no citations at all", []string{"src/lib.go"})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Less(t, res.Score, 1.0)
}

func TestCitationsStage_EnforcedNoCitationsFails(t *testing.T) {
	stage := NewCitationsStage(true, true)
	res, err := stage.Validate(context.Background(), "a response with no citations at all", []string{"src/lib.go"})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, SeverityHard, res.Severity)
}

func TestCitationsStage_EnforcedValidCitationPasses(t *testing.T) {
	stage := NewCitationsStage(true, true)
	res, err := stage.Validate(context.Background(), "see src/lib.go:10 for the fix", []string{"src/lib.go"})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Greater(t, res.Score, 0.5)
}

func TestCitationsStage_EnforcedUnknownFileFails(t *testing.T) {
	stage := NewCitationsStage(true, true)
	res, err := stage.Validate(context.Background(), "see unknown.go:5 for the fix", []string{"src/lib.go"})
	require.NoError(t, err)
	assert.False(t, res.Passed)
}
