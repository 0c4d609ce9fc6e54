package tool

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"forge/internal/logging"
)

// DefaultScriptTimeout is the wall-clock budget for one script's
// execution, per §5's concurrency model.
const DefaultScriptTimeout = 15 * time.Second

// scriptBlockPattern extracts delimited, language-tagged script blocks
// from a model response. Multiple blocks are concatenated in order.
var scriptBlockPattern = regexp.MustCompile("(?s)```(?:go)?\\s*\n(.*?)```")

// ExtractScript pulls every fenced script block out of response and
// concatenates them in order. A response with no fenced blocks is a
// direct answer, not a script: ExtractScript returns "", false.
func ExtractScript(response string) (string, bool) {
	matches := scriptBlockPattern.FindAllStringSubmatch(response, -1)
	if len(matches) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(m[1])
		sb.WriteString("\n")
	}
	return sb.String(), true
}

// allowedStdlib is the stdlib import allow-list: no os, os/exec, net,
// syscall, or unsafe, so the only side-effecting surface a script can
// reach is the tools symbol table.
var allowedStdlib = map[string]bool{
	"strings": true, "strconv": true, "fmt": true, "math": true,
	"regexp": true, "encoding/json": true, "encoding/base64": true,
	"time": true, "sort": true, "bytes": true, "path": true, "path/filepath": true,
	"errors": true, "unicode": true,
}

// Runtime interprets model-emitted scripts in a sandboxed yaegi
// interpreter, exposing the Registry's tools as a `tools` package the
// script can call into. It loads yaegi's stdlib symbols, but rejects
// before evaluation any script importing a package outside
// allowedStdlib (os/exec, net, syscall, and unsafe among them), so the
// registered tools are the interpreter's only side-effecting surface.
type Runtime struct {
	registry *Registry
	timeout  time.Duration
}

// NewRuntime builds a Runtime backed by registry, with the default
// script timeout.
func NewRuntime(registry *Registry) *Runtime {
	return &Runtime{registry: registry, timeout: DefaultScriptTimeout}
}

// WithTimeout overrides the default 15s script timeout.
func (r *Runtime) WithTimeout(d time.Duration) *Runtime {
	r.timeout = d
	return r
}

// ErrScriptTimeout is returned when a script exceeds its wall-clock budget.
type ErrScriptTimeout struct{}

func (ErrScriptTimeout) Error() string { return "tool: script execution timed out" }

// Execute runs script in a fresh interpreter instance, wired with the
// registry's tools. The script must define `func Run() (string, error)`.
// The returned diffs are the rendered Output.Diff of every dispatched
// tool call that produced one (write_file/edit_file overwriting
// existing content), in call order, for callers that want to surface
// the file changes a script made.
func (r *Runtime) Execute(ctx context.Context, script string) (string, []string, error) {
	if err := validateImports(script); err != nil {
		return "", nil, fmt.Errorf("tool: invalid imports: %w", err)
	}

	var diffs []string

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", nil, fmt.Errorf("tool: load stdlib: %w", err)
	}
	if err := i.Use(r.toolsExports(&diffs)); err != nil {
		return "", nil, fmt.Errorf("tool: load tools symbol table: %w", err)
	}

	fullCode := wrapScript(script)
	if _, err := i.Eval(fullCode); err != nil {
		return "", nil, fmt.Errorf("tool: script evaluation failed: %w", err)
	}

	runFunc, err := i.Eval("main.Run")
	if err != nil {
		return "", nil, fmt.Errorf("tool: Run function not found: %w", err)
	}
	run, ok := runFunc.Interface().(func() (string, error))
	if !ok {
		return "", nil, fmt.Errorf("tool: Run has incorrect signature, expected func() (string, error)")
	}

	timeout := r.timeout
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		out string
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		out, err := run()
		resultCh <- result{out, err}
	}()

	select {
	case res := <-resultCh:
		return res.out, diffs, res.err
	case <-runCtx.Done():
		// The script goroutine is abandoned, not killed, and may still be
		// running (and appending to diffs) after we return here; reading
		// diffs now would race with it, so report none rather than risk
		// reading a slice concurrently being appended to.
		logging.ToolDebug("script execution exceeded timeout %s", timeout)
		return "", nil, ErrScriptTimeout{}
	}
}

// toolsExports builds the `tools` package yaegi symbol table: one
// func(string) (string, error) per registered tool, named after the
// tool, matching Execute's (result, err-as-string) shape translated
// into Go's (string, error) idiom for the interpreted script. Any
// non-empty Output.Diff is appended to *diffs; the script runs on a
// single goroutine, so these appends never race each other.
func (r *Runtime) toolsExports(diffs *[]string) interp.Exports {
	symbols := make(map[string]reflect.Value)
	for _, name := range r.registry.names() {
		toolName := name
		fn := func(input string) (string, error) {
			out := r.registry.Dispatch(toolName, input)
			if out.Diff != "" {
				*diffs = append(*diffs, out.Diff)
			}
			if out.Err != "" {
				return out.Result, fmt.Errorf("%s", out.Err)
			}
			return out.Result, nil
		}
		symbols[exportSymbolName(toolName)] = reflect.ValueOf(fn)
	}
	return interp.Exports{"tools/tools": symbols}
}

// exportSymbolName converts a snake_case tool name (e.g. "read_file")
// into the CamelCase identifier yaegi scripts call as tools.ReadFile.
func exportSymbolName(toolName string) string {
	parts := strings.Split(toolName, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}

func wrapScript(script string) string {
	if strings.Contains(script, "package main") {
		return script
	}
	return fmt.Sprintf("package main\n\nimport \"tools\"\n\n%s\n", script)
}

func validateImports(script string) error {
	lines := strings.Split(script, "\n")
	inBlock := false
	var forbidden []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import (") {
			inBlock = true
			continue
		}
		if inBlock && strings.HasPrefix(trimmed, ")") {
			inBlock = false
			continue
		}
		var pkg string
		switch {
		case inBlock:
			pkg = strings.Trim(trimmed, `"`)
		case strings.HasPrefix(trimmed, "import "):
			pkg = strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`)
		default:
			continue
		}
		if pkg == "" || pkg == "tools" {
			continue
		}
		if !allowedStdlib[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}
