package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxStage_NoCodeBlocksIsNeutral(t *testing.T) {
	stage := NewSyntaxStage(true)
	res, err := stage.Validate(context.Background(), "just prose, no code", nil)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)
}

func TestSyntaxStage_UnrecognizedLanguageIsNeutral(t *testing.T) {
	stage := NewSyntaxStage(true)
	res, err := stage.Validate(context.Background(), "```toml\n[a\n```", nil)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)
}

func TestSyntaxStage_ValidGoBlockPasses(t *testing.T) {
	stage := NewSyntaxStage(true)
	response := "```go\npackage main\n\nfunc main() {}\n```"
	res, err := stage.Validate(context.Background(), response, nil)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

func TestSyntaxStage_MalformedGoBlockFails(t *testing.T) {
	stage := NewSyntaxStage(true)
	response := "```go\nfunc main( {{{\n```"
	res, err := stage.Validate(context.Background(), response, nil)
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, SeverityHard, res.Severity)
}
