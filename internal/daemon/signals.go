package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals are the signals that stop the breathe daemon.
var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
}

// SignalHandler waits for a shutdown signal so the scheduler and PID
// file can be torn down cleanly.
type SignalHandler struct {
	ch   chan os.Signal
	quit chan struct{}
}

func NewSignalHandler() *SignalHandler {
	return &SignalHandler{
		ch:   make(chan os.Signal, 1),
		quit: make(chan struct{}),
	}
}

// Setup subscribes to the shutdown signals.
func (h *SignalHandler) Setup() {
	signal.Notify(h.ch, shutdownSignals...)
}

// Wait blocks until a shutdown signal arrives, the context is
// cancelled, or Stop is called. Returns nil unless a signal fired.
func (h *SignalHandler) Wait(ctx context.Context) os.Signal {
	select {
	case sig := <-h.ch:
		return sig
	case <-ctx.Done():
	case <-h.quit:
	}
	return nil
}

// Stop unsubscribes and releases any pending Wait.
func (h *SignalHandler) Stop() {
	signal.Stop(h.ch)
	close(h.quit)
}

// Cleanup unsubscribes without releasing Wait.
func (h *SignalHandler) Cleanup() {
	signal.Stop(h.ch)
}
