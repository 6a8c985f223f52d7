package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// JSONHandler implements the IOHandler interface for structured JSON-lines
// communication: one Command object per input line, one Response object
// per output line. Hosts embedding the editor behind a pipe or websocket
// bridge speak this protocol.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

// ReadCommand decodes the next line as a Command.
func (h *JSONHandler) ReadCommand(ctx context.Context) (Command, error) {
	line, err := h.readLine(ctx)
	if err != nil {
		return Command{}, err
	}

	var cmd Command
	if err := json.Unmarshal([]byte(line), &cmd); err != nil {
		return Command{}, fmt.Errorf("malformed command line: %w", err)
	}
	return cmd, nil
}

// ReadLine reads one raw response line. A JSON-quoted string is unquoted;
// anything else is returned verbatim so plain-text confirmations work too.
func (h *JSONHandler) ReadLine(ctx context.Context) (string, error) {
	line, err := h.readLine(ctx)
	if err != nil {
		return "", err
	}
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		return val, nil
	}
	return line, nil
}

func (h *JSONHandler) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for {
		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if err != nil {
			if err == io.EOF && text != "" {
				// Final line without a trailing newline still counts.
				return text, nil
			}
			return "", err
		}
		if text == "" {
			continue
		}
		return text, nil
	}
}

// WriteResult emits the response as one JSON line.
func (h *JSONHandler) WriteResult(_ context.Context, res *Response) error {
	return h.Encoder.Encode(res)
}

// SystemOutput emits meta-messages in the same envelope so consumers can
// parse a single stream.
func (h *JSONHandler) SystemOutput(_ context.Context, msg string) error {
	return h.Encoder.Encode(&Response{OK: true, Verb: VerbSystem, Message: msg})
}
