// Package process pipes exported layout documents through external
// commands: formatters, publishers, static-site build steps. Commands are
// allow-listed up front; the document arrives on stdin as canonical JSON.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
)

// MetadataKeyExport is the document metadata key an inline exporter
// declaration is read from when inline execution is enabled.
const MetadataKeyExport = "export"

// Runner executes allow-listed exporters against a document. It follows a
// Strict Registry pattern for security (Allow-Listing): only registered
// commands run, unless inline execution is explicitly enabled.
type Runner struct {
	registry    map[string]RegisteredExporter
	allowInline bool
	baseDir     string
}

// RegisteredExporter defines an allowed command execution.
type RegisteredExporter struct {
	Command string
	Args    []string
	Env     map[string]string
}

// ExportResult carries the outcome of one exporter run. Execution failures
// are reported in the result rather than as a Go error, so hosts can render
// them next to successful output.
type ExportResult struct {
	Name    string `json:"name"`
	Result  any    `json:"result,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(exporters map[string]ExporterConfig) RunnerOption {
	return func(r *Runner) {
		for name, exporter := range exporters {
			r.registry[name] = RegisteredExporter{
				Command: exporter.Command,
				Args:    exporter.Args,
				Env:     exporter.Environment,
			}
		}
	}
}

// WithInlineExecution allows documents to declare their own exporter in
// metadata (Dangerous).
func WithInlineExecution(allow bool) RunnerOption {
	return func(r *Runner) {
		r.allowInline = allow
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new export process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]RegisteredExporter),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = RegisteredExporter{
		Command: command,
		Args:    args,
	}
}

// Registered returns the allow-listed exporter names, sorted.
func (r *Runner) Registered() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the named exporter with the serialized document on stdin.
//
// Document stats travel as environment variables (LATTICE_DOC_WIDGETS,
// LATTICE_DOC_ROOTS, LATTICE_DOC_VERSION, and LATTICE_DOC_TEMPLATE when the
// document records its template). Exporter arguments are never built from
// document content, which keeps shell injection off the table.
func (r *Runner) Execute(ctx context.Context, name string, layout *domain.Layout) (ExportResult, error) {
	proc, ok := r.registry[name]

	if !ok && r.allowInline {
		proc, ok = inlineExporter(layout)
	}

	if !ok {
		return ExportResult{
			Name:    name,
			IsError: true,
			Error:   fmt.Sprintf("exporter not registered: %s (and inline execution not enabled/found)", name),
		}, nil
	}

	data, err := codec.Marshal(layout)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to serialize document: %w", err)
	}

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir
	cmd.Stdin = bytes.NewReader(data)

	env := []string{
		fmt.Sprintf("LATTICE_DOC_WIDGETS=%d", layout.WidgetCount()),
		fmt.Sprintf("LATTICE_DOC_ROOTS=%d", len(layout.RootWidgets())),
		fmt.Sprintf("LATTICE_DOC_VERSION=%s", layout.Version()),
	}
	if tmpl, ok := layout.MetadataValue("template"); ok {
		if s, ok := tmpl.(string); ok && s != "" {
			env = append(env, fmt.Sprintf("LATTICE_DOC_TEMPLATE=%s", s))
		}
	}
	for k, v := range proc.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := ExportResult{Name: name}

	if err := cmd.Run(); err != nil {
		result.IsError = true
		// Combine error message with stderr for context
		result.Error = fmt.Sprintf("execution failed: %v. Stderr: %s", err, stderr.String())
		return result, nil
	}

	output := strings.TrimSpace(stdout.String())

	// Exporters that answer with JSON get structured results.
	if (strings.HasPrefix(output, "{") && strings.HasSuffix(output, "}")) ||
		(strings.HasPrefix(output, "[") && strings.HasSuffix(output, "]")) {
		var jsonResult any
		if jsonErr := json.Unmarshal([]byte(output), &jsonResult); jsonErr == nil {
			result.Result = jsonResult
			return result, nil
		}
	}

	result.Result = output
	return result, nil
}

// inlineExporter reads an exporter declaration from document metadata:
//
//	"export": {"command": "npx", "args": ["@acme/publish"]}
//
// args may also be a single string, which is split on whitespace.
func inlineExporter(layout *domain.Layout) (RegisteredExporter, bool) {
	raw, ok := layout.MetadataValue(MetadataKeyExport)
	if !ok {
		return RegisteredExporter{}, false
	}
	spec, ok := raw.(map[string]any)
	if !ok {
		return RegisteredExporter{}, false
	}
	command, ok := spec["command"].(string)
	if !ok || command == "" {
		return RegisteredExporter{}, false
	}

	exporter := RegisteredExporter{Command: command}
	switch args := spec["args"].(type) {
	case []any:
		for _, a := range args {
			exporter.Args = append(exporter.Args, fmt.Sprintf("%v", a))
		}
	case []string:
		exporter.Args = append(exporter.Args, args...)
	case string:
		exporter.Args = strings.Fields(args)
	}
	return exporter, true
}
