package runner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
)

// scriptedHandler is a minimal IOHandler for middleware tests: it records
// system messages and serves pre-baked answers to ReadLine.
type scriptedHandler struct {
	system  []string
	answers []string
}

func (s *scriptedHandler) ReadCommand(context.Context) (Command, error) {
	return Command{}, io.EOF
}

func (s *scriptedHandler) ReadLine(context.Context) (string, error) {
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *scriptedHandler) WriteResult(context.Context, *Response) error { return nil }

func (s *scriptedHandler) SystemOutput(_ context.Context, msg string) error {
	s.system = append(s.system, msg)
	return nil
}

func TestMultiInterceptor_FirstRejectionWins(t *testing.T) {
	calls := []string{}
	pass := func(name string) MutationInterceptor {
		return func(context.Context, domain.Mutation) error {
			calls = append(calls, name)
			return nil
		}
	}
	reject := func(context.Context, domain.Mutation) error {
		calls = append(calls, "reject")
		return errors.New("blocked")
	}

	chain := MultiInterceptor(pass("a"), reject, pass("b"))
	err := chain(context.Background(), domain.Mutation{Op: domain.OpAddRoot, WidgetType: "text"})

	if err == nil || err.Error() != "blocked" {
		t.Fatalf("expected rejection, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "reject" {
		t.Errorf("expected short-circuit after rejection, got %v", calls)
	}
}

func TestReadOnly_BlocksEverything(t *testing.T) {
	interceptor := ReadOnly()
	err := interceptor(context.Background(), domain.Mutation{Op: domain.OpRemove, WidgetID: "x"})
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Fatalf("expected read-only rejection, got %v", err)
	}
}

func TestConfirmRemovals_Allow(t *testing.T) {
	mock := &scriptedHandler{answers: []string{"y"}}
	interceptor := ConfirmRemovals(mock)

	err := interceptor(context.Background(), domain.Mutation{Op: domain.OpRemove, WidgetID: "hero"})
	if err != nil {
		t.Fatalf("expected approval, got %v", err)
	}
	if len(mock.system) != 1 || !strings.Contains(mock.system[0], "hero") {
		t.Errorf("expected confirmation prompt naming the widget, got %v", mock.system)
	}
}

func TestConfirmRemovals_Deny(t *testing.T) {
	mock := &scriptedHandler{answers: []string{"n"}}
	interceptor := ConfirmRemovals(mock)

	err := interceptor(context.Background(), domain.Mutation{Op: domain.OpRemove, WidgetID: "hero"})
	if err == nil || !strings.Contains(err.Error(), "cancelled") {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestConfirmRemovals_IgnoresOtherOps(t *testing.T) {
	mock := &scriptedHandler{} // no answers available: prompting would fail
	interceptor := ConfirmRemovals(mock)

	err := interceptor(context.Background(), domain.Mutation{Op: domain.OpAddRoot, WidgetType: "text"})
	if err != nil {
		t.Fatalf("expected pass-through for non-removal, got %v", err)
	}
	if len(mock.system) != 0 {
		t.Errorf("expected no prompt, got %v", mock.system)
	}
}
