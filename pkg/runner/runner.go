package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Runner drives a layout editor from any IOHandler. It owns no state of
// its own: the editor holds the document and history, the handler owns the
// wire, and the runner just shuttles commands between them.
type Runner struct {
	// Handler is the IO strategy. Defaults to a TextHandler on
	// stdin/stdout.
	Handler IOHandler

	// Interceptor is a policy middleware over mutations. Defaults to
	// AllowAll.
	Interceptor MutationInterceptor

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store and StoreKey back the explicit 'save' command. Optional: an
	// editor opened with autosave persists without them.
	Store    ports.LayoutStore
	StoreKey string

	// Catalog backs the 'widgets' command. Optional.
	Catalog ports.WidgetCatalog

	editor ports.LayoutEditor
}

// NewRunner creates a runner over the given editor.
func NewRunner(editor ports.LayoutEditor, opts ...Option) *Runner {
	r := &Runner{
		editor: editor,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Interceptor == nil {
		r.Interceptor = AllowAll()
	}
	if r.StoreKey == "" {
		r.StoreKey = domain.DefaultAutosaveKey
	}
	return r
}

// Run executes the command loop until the input source is exhausted, the
// user quits, or the context is cancelled. Interrupts (Ctrl+C) exit
// gracefully.
func (r *Runner) Run(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		loopCtx := signals.Context()

		cmd, err := r.Handler.ReadCommand(loopCtx)
		if err != nil {
			// On some platforms Ctrl+C surfaces as a read error just
			// before the signal context cancels; give the signal a moment
			// to land before classifying the error.
			signals.CheckRace()
			if loopCtx.Err() != nil || errors.Is(err, context.Canceled) {
				r.Logger.Debug("command loop interrupted")
				_ = r.Handler.SystemOutput(context.Background(), "interrupted")
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		res := r.dispatch(loopCtx, cmd)
		if err := r.Handler.WriteResult(loopCtx, res); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if cmd.Verb == VerbQuit {
			return nil
		}
	}
}

// dispatch executes one command and never panics the loop: failures come
// back as res.OK=false with the error text.
func (r *Runner) dispatch(ctx context.Context, cmd Command) *Response {
	res := &Response{Verb: cmd.Verb, OK: true}

	var err error
	switch cmd.Verb {
	case VerbApply:
		err = r.applyMutation(ctx, cmd.Mutation, res)
	case VerbSet:
		err = r.setProperty(ctx, cmd, res)
	case VerbUndo:
		if _, ok := r.editor.Undo(ctx); ok {
			res.Message = "undone"
		} else {
			err = errors.New("nothing to undo")
		}
	case VerbRedo:
		if _, ok := r.editor.Redo(ctx); ok {
			res.Message = "redone"
		} else {
			err = errors.New("nothing to redo")
		}
	case VerbTree:
		res.Layout = r.editor.Layout()
	case VerbExport:
		res.Document, err = r.editor.Export(true)
	case VerbSave:
		err = r.save(ctx, res)
	case VerbClear:
		if err = r.editor.Clear(ctx); err == nil {
			res.Message = "document cleared, history reset"
		}
	case VerbWidgets:
		err = r.listWidgets(res)
	case VerbHelp:
		res.Message = helpText
	case VerbQuit:
		res.Message = "bye"
	default:
		err = fmt.Errorf("unknown command %q", cmd.Verb)
	}

	if err != nil {
		res.OK = false
		res.Error = err.Error()
		r.Logger.Debug("command failed", "verb", cmd.Verb, "err", err)
	}

	res.Widgets = r.editor.Layout().WidgetCount()
	res.CanUndo = r.editor.CanUndo()
	res.CanRedo = r.editor.CanRedo()
	return res
}

func (r *Runner) applyMutation(ctx context.Context, m *domain.Mutation, res *Response) error {
	if m == nil {
		return errors.New("apply requires a mutation")
	}
	if err := r.Interceptor(ctx, *m); err != nil {
		return err
	}
	out, err := r.editor.Apply(ctx, *m)
	if err != nil {
		return err
	}
	res.Result = out
	return nil
}

// setProperty merges one property into the widget's current config and
// applies the result as a full update, so the change is one undo step.
func (r *Runner) setProperty(ctx context.Context, cmd Command, res *Response) error {
	if cmd.WidgetID.IsZero() || cmd.Key == "" {
		return errors.New("set requires a widget id and a property key")
	}
	node, ok := r.editor.Layout().Widget(cmd.WidgetID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrWidgetNotFound, cmd.WidgetID)
	}
	cfg := node.Config.Clone()
	cfg.SetProperty(cmd.Key, cmd.Value)
	return r.applyMutation(ctx, &domain.Mutation{
		Op:       domain.OpUpdateConfig,
		WidgetID: cmd.WidgetID,
		Config:   &cfg,
	}, res)
}

func (r *Runner) save(ctx context.Context, res *Response) error {
	if r.Store == nil {
		return errors.New("no store configured; open the editor with autosave or pass one to the runner")
	}
	if err := r.Store.Save(ctx, r.StoreKey, r.editor.Layout()); err != nil {
		return fmt.Errorf("save %q: %w", r.StoreKey, err)
	}
	res.Message = fmt.Sprintf("saved as %q", r.StoreKey)
	r.Logger.Debug("document saved", "key", r.StoreKey)
	return nil
}

func (r *Runner) listWidgets(res *Response) error {
	if r.Catalog == nil {
		return errors.New("no widget catalog configured")
	}
	var b strings.Builder
	// Registration order is palette order; keep it.
	for _, t := range r.Catalog.Types() {
		w, err := r.Catalog.Get(t)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%-18s %s\n", t, w.DisplayName())
	}
	res.Message = strings.TrimRight(b.String(), "\n")
	return nil
}

const helpText = `Commands:
  add <type>                 add a root widget (see 'widgets' for types)
  child <parent-id> <type>   add a widget inside a container
  remove <id>                remove a widget and its subtree
  up <id> / down <id>        move a widget among its siblings
  set <id> <key> <value>     update one widget property
  theme <name>               set the document theme
  tree                       show the document structure
  widgets                    list available widget types
  undo / redo                walk the edit history
  export                     print the document as JSON
  save                       persist the document to the store
  clear                      start over (not undoable)
  help                       show this text
  exit                       leave the editor`
