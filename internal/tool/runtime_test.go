package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScript_NoFencedBlockIsDirectAnswer(t *testing.T) {
	_, ok := ExtractScript("just a plain text answer")
	assert.False(t, ok)
}

func TestExtractScript_ConcatenatesMultipleBlocksInOrder(t *testing.T) {
	response := "first:\n```go\nfunc Run() (string, error) { return \"a\", nil }\n```\nsecond:\n```go\n// more\n```"
	script, ok := ExtractScript(response)
	require.True(t, ok)
	assert.Contains(t, script, "func Run")
	assert.Contains(t, script, "// more")
}

func TestRuntime_Execute_CallsRegisteredTool(t *testing.T) {
	r := NewRegistry()
	r.Register(echoTool{})
	rt := NewRuntime(r)

	script := `
func Run() (string, error) {
	return tools.Echo("hello from script")
}
`
	out, _, err := rt.Execute(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "hello from script", out)
}

func TestRuntime_Execute_RejectsForbiddenImport(t *testing.T) {
	r := NewRegistry()
	rt := NewRuntime(r)

	script := `
import "os/exec"

func Run() (string, error) {
	return "", nil
}
`
	_, _, err := rt.Execute(context.Background(), script)
	assert.Error(t, err)
}

func TestRuntime_Execute_TimesOutOnSlowScript(t *testing.T) {
	r := NewRegistry()
	rt := NewRuntime(r).WithTimeout(50 * time.Millisecond)

	script := `
import "time"

func Run() (string, error) {
	time.Sleep(5 * time.Second)
	return "done", nil
}
`
	_, _, err := rt.Execute(context.Background(), script)
	require.Error(t, err)
	assert.IsType(t, ErrScriptTimeout{}, err)
}
