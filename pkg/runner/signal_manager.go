package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalManager ties OS interrupts to context cancellation and papers over
// the platform race where Ctrl+C surfaces as a read error slightly before
// the signal lands.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager starts listening for SIGINT and SIGTERM, deriving from
// parent so external cancellation propagates too.
func NewSignalManager(parent context.Context) *SignalManager {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return &SignalManager{ctx: ctx, cancel: cancel}
}

// Context returns the signal-aware context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Stop releases the signal listener.
func (sm *SignalManager) Stop() {
	sm.cancel()
}

// CheckRace waits briefly for a cancellation that may trail an input
// error. On Windows terminals Ctrl+C can fail the pending read before the
// signal context cancels; without this wait the error would be
// misclassified as a genuine input failure.
func (sm *SignalManager) CheckRace() {
	if sm.ctx.Err() != nil {
		return
	}
	select {
	case <-sm.ctx.Done():
	case <-time.After(100 * time.Millisecond):
	}
}
