package runner

import (
	"encoding/json"

	"github.com/aretw0/lattice/pkg/domain"
)

// Verb identifies what a command asks the runner to do.
type Verb string

const (
	// VerbApply executes the attached document mutation.
	VerbApply Verb = "apply"
	// VerbSet updates a single property on a widget, merging into its
	// current configuration. Sugar over a full update mutation.
	VerbSet     Verb = "set"
	VerbUndo    Verb = "undo"
	VerbRedo    Verb = "redo"
	VerbTree    Verb = "tree"
	VerbExport  Verb = "export"
	VerbSave    Verb = "save"
	VerbClear   Verb = "clear"
	VerbWidgets Verb = "widgets"
	VerbHelp    Verb = "help"
	VerbQuit    Verb = "quit"
	// VerbSystem marks handler-originated meta messages in responses.
	VerbSystem Verb = "system"
)

// Command is one instruction for the runner. Text and JSON handlers both
// produce this shape; the runner never sees raw input.
type Command struct {
	Verb     Verb             `json:"verb"`
	Mutation *domain.Mutation `json:"mutation,omitempty"`

	// WidgetID, Key and Value carry the operands of VerbSet.
	WidgetID domain.WidgetID `json:"widget_id,omitempty"`
	Key      string          `json:"key,omitempty"`
	Value    any             `json:"value,omitempty"`
}

// Response is the outcome of one command. JSON mode emits it verbatim;
// text mode renders it for humans.
type Response struct {
	OK    bool   `json:"ok"`
	Verb  Verb   `json:"verb"`
	Error string `json:"error,omitempty"`

	// Result is set for apply/set commands.
	Result *domain.MutationResult `json:"result,omitempty"`
	// Document carries the serialized layout for export commands.
	Document json.RawMessage `json:"document,omitempty"`
	// Message is free-form text (help, confirmations, list output).
	Message string `json:"message,omitempty"`

	Widgets int  `json:"widgets"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`

	// Layout gives structural handlers (tree rendering) access to the
	// document without re-decoding it; never serialized.
	Layout *domain.Layout `json:"-"`
}
