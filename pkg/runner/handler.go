package runner

import "context"

// IOHandler defines the strategy for interacting with the user or host.
// This allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// ReadCommand blocks for the next editor command. It returns io.EOF
	// when the input source is exhausted.
	ReadCommand(ctx context.Context) (Command, error)

	// ReadLine reads one raw response from the user. Interceptors use it
	// for confirmation prompts outside the command protocol.
	ReadLine(ctx context.Context) (string, error)

	// WriteResult presents the outcome of one command.
	WriteResult(ctx context.Context, res *Response) error

	// SystemOutput presents a meta-message (shutdown notices, warnings).
	// This is distinct from command results.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms text before the handler prints it. It lets a
// TUI render markdown to ANSI without coupling this package to a renderer.
type ContentRenderer func(string) (string, error)
