package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/lattice/pkg/domain"
)

// TextHandler implements the interactive text interface: one command per
// line in, human-readable results out.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Prompt   string

	// interactive marks terminal sources, where EOF may mean an
	// interrupted read rather than an exhausted stream.
	interactive bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextRenderer configures the content renderer (e.g. markdown to ANSI).
func WithTextRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt overrides the input prompt.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for interactive text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		Prompt:      "> ",
		interactive: isTerminal(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump moves lines from the blocking reader onto a channel so reads can
// race against context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			if h.interactive {
				// On a terminal, EOF can mean a signal interrupted the
				// read while the stream itself stays valid. Report the
				// failed read but keep the channel open for the next one.
				h.inputChan <- inputResult{err: io.EOF}
				time.Sleep(50 * time.Millisecond)
				continue
			}
			close(h.inputChan)
			return
		}
		h.inputChan <- inputResult{err: err}
		// Backoff so a persistently failing source cannot spin the CPU.
		time.Sleep(50 * time.Millisecond)
	}
}

// ReadLine reads one sanitized line, reprompting on oversized or malformed
// input.
func (h *TextHandler) ReadLine(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, h.Prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// ReadCommand reads lines until one parses as a command. Empty lines are
// skipped; parse failures reprompt with the reason.
func (h *TextHandler) ReadCommand(ctx context.Context) (Command, error) {
	for {
		line, err := h.ReadLine(ctx)
		if err != nil {
			return Command{}, err
		}
		if line == "" {
			continue
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintf(h.Writer, "error: %v\n", err)
			continue
		}
		return cmd, nil
	}
}

// ParseCommand turns one REPL line into a Command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	verb, args := fields[0], fields[1:]

	switch verb {
	case "add":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: add <type>")
		}
		return mutate(domain.Mutation{Op: domain.OpAddRoot, WidgetType: args[0]}), nil

	case "child":
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: child <parent-id> <type>")
		}
		parent := domain.WidgetID(args[0])
		return mutate(domain.Mutation{
			Op:         domain.OpAddChild,
			ParentID:   &parent,
			WidgetType: args[1],
		}), nil

	case "remove", "rm":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: remove <id>")
		}
		return mutate(domain.Mutation{Op: domain.OpRemove, WidgetID: domain.WidgetID(args[0])}), nil

	case "up", "down":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <id>", verb)
		}
		op := domain.OpMoveUp
		if verb == "down" {
			op = domain.OpMoveDown
		}
		return mutate(domain.Mutation{Op: op, WidgetID: domain.WidgetID(args[0])}), nil

	case "set":
		if len(args) < 3 {
			return Command{}, fmt.Errorf("usage: set <id> <key> <value>")
		}
		return Command{
			Verb:     VerbSet,
			WidgetID: domain.WidgetID(args[0]),
			Key:      args[1],
			Value:    parseScalar(strings.Join(args[2:], " ")),
		}, nil

	case "theme":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: theme <name>")
		}
		return mutate(domain.Mutation{
			Op:    domain.OpSetTheme,
			Theme: &domain.ThemeConfig{Name: args[0]},
		}), nil

	case "tree", "ls":
		return Command{Verb: VerbTree}, nil
	case "widgets", "palette":
		return Command{Verb: VerbWidgets}, nil
	case "undo":
		return Command{Verb: VerbUndo}, nil
	case "redo":
		return Command{Verb: VerbRedo}, nil
	case "export":
		return Command{Verb: VerbExport}, nil
	case "save":
		return Command{Verb: VerbSave}, nil
	case "clear":
		return Command{Verb: VerbClear}, nil
	case "help", "?":
		return Command{Verb: VerbHelp}, nil
	case "exit", "quit":
		return Command{Verb: VerbQuit}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q (try 'help')", verb)
	}
}

func mutate(m domain.Mutation) Command {
	return Command{Verb: VerbApply, Mutation: &m}
}

// parseScalar keeps REPL property values usable: bools and numbers become
// typed values, everything else stays a string.
func parseScalar(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// WriteResult renders one response for humans.
func (h *TextHandler) WriteResult(_ context.Context, res *Response) error {
	if !res.OK {
		fmt.Fprintf(h.Writer, "error: %s\n", res.Error)
		return nil
	}

	switch res.Verb {
	case VerbApply, VerbSet:
		if res.Result == nil {
			break
		}
		if res.Result.WidgetID.IsZero() {
			fmt.Fprintf(h.Writer, "ok: %s (%d widgets)\n", res.Result.Op, res.Widgets)
		} else {
			fmt.Fprintf(h.Writer, "ok: %s %s (%d widgets)\n", res.Result.Op, res.Result.WidgetID, res.Widgets)
		}
	case VerbTree:
		h.writeTree(res.Layout)
	case VerbExport:
		fmt.Fprintln(h.Writer, string(res.Document))
	case VerbHelp:
		h.writeContent(res.Message)
	default:
		if res.Message != "" {
			fmt.Fprintln(h.Writer, res.Message)
		}
	}
	return nil
}

// writeContent prints through the renderer when one is set.
func (h *TextHandler) writeContent(msg string) {
	out := msg
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			out = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimSpace(out))
}

func (h *TextHandler) writeTree(layout *domain.Layout) {
	if layout == nil || layout.IsEmpty() {
		fmt.Fprintln(h.Writer, "(empty document)")
		return
	}
	for _, root := range layout.RootWidgets() {
		h.writeNode(layout, root, "", "")
	}
}

func (h *TextHandler) writeNode(layout *domain.Layout, id domain.WidgetID, prefix, childPrefix string) {
	node, ok := layout.Widget(id)
	if !ok {
		return
	}
	fmt.Fprintf(h.Writer, "%s%s (%s)\n", prefix, id, node.Config.WidgetType)
	for i, child := range node.Children {
		if i == len(node.Children)-1 {
			h.writeNode(layout, child, childPrefix+"└─ ", childPrefix+"   ")
		} else {
			h.writeNode(layout, child, childPrefix+"├─ ", childPrefix+"│  ")
		}
	}
}

// SystemOutput prefixes meta-messages so they stand apart from results.
func (h *TextHandler) SystemOutput(_ context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "\n[system] %s\n", msg)
	return nil
}
