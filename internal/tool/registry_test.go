package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "echoes its input" }
func (echoTool) Signature() string   { return "echo(s string) (string, error)" }
func (echoTool) Execute(input string) Output { return Output{Result: input} }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(echoTool{})
	got, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", got.Name())
}

func TestRegistry_Dispatch_UnknownToolReportsError(t *testing.T) {
	r := NewRegistry()
	out := r.Dispatch("missing", "")
	assert.NotEmpty(t, out.Err)
}

func TestRegistry_Dispatch_RoutesToRegisteredTool(t *testing.T) {
	r := NewRegistry()
	r.Register(echoTool{})
	out := r.Dispatch("echo", "hello")
	assert.Equal(t, "hello", out.Result)
	assert.Empty(t, out.Err)
}
