package engine

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Runner drives an Engine against a wall clock and renders it to the
// terminal. The engine itself stays free of I/O; the runner owns the
// ticker, keyboard controls, and signal handling.
type Runner struct {
	engine  *Engine
	display *Display

	tickInterval time.Duration
	patternName  string

	pauseCh chan struct{}
	quitCh  chan struct{}
}

// NewRunner creates a runner for the given engine.
func NewRunner(e *Engine, patternName string, tickInterval time.Duration) *Runner {
	return &Runner{
		engine:       e,
		display:      NewDisplay(),
		tickInterval: tickInterval,
		patternName:  patternName,
		pauseCh:      make(chan struct{}, 1),
		quitCh:       make(chan struct{}, 1),
	}
}

// SetDisplay overrides the default terminal display.
func (r *Runner) SetDisplay(d *Display) {
	r.display = d
}

// TogglePause requests a pause or resume at the next loop iteration.
func (r *Runner) TogglePause() {
	select {
	case r.pauseCh <- struct{}{}:
	default:
	}
}

// Quit requests an early exit.
func (r *Runner) Quit() {
	select {
	case r.quitCh <- struct{}{}:
	default:
	}
}

// Run starts the engine and blocks until the session completes, the
// user quits, or the context is cancelled. Cancellation counts as an
// early exit with partial credit.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Raw terminal mode for keyboard input
	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return Result{}, err
		}
		defer term.Restore(fd, oldState)

		go r.listenKeyboard(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := r.engine.Start(); err != nil {
		return Result{}, err
	}
	r.render(false)

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	paused := false
	for {
		select {
		case <-ctx.Done():
			return r.engine.Stop(true)

		case <-sigCh:
			return r.engine.Stop(true)

		case <-r.quitCh:
			return r.engine.Stop(true)

		case <-r.pauseCh:
			if paused {
				if err := r.engine.Resume(); err != nil {
					return Result{}, err
				}
			} else {
				if err := r.engine.Pause(); err != nil {
					return Result{}, err
				}
			}
			paused = !paused
			r.render(paused)

		case <-ticker.C:
			snap, err := r.engine.Tick()
			if err != nil {
				return Result{}, err
			}
			if snap.State == StateCompleted {
				r.renderComplete(Result{Completed: true, ElapsedSeconds: snap.Elapsed})
				return Result{Completed: true, ElapsedSeconds: snap.Elapsed}, nil
			}
			r.render(paused)
		}
	}
}

// render updates the terminal display.
func (r *Runner) render(paused bool) {
	r.display.MoveCursorHome()
	r.display.ClearScreen()
	output := r.display.Render(r.engine.Snapshot(), r.patternName, paused)
	os.Stdout.WriteString(output)
}

// renderComplete shows the end-of-session summary.
func (r *Runner) renderComplete(result Result) {
	r.display.ClearScreen()
	output := r.display.RenderComplete(result, r.patternName)
	os.Stdout.WriteString(output + "\n")
}

// listenKeyboard listens for keyboard input.
func (r *Runner) listenKeyboard(ctx context.Context) {
	buf := make([]byte, 1)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			os.Stdin.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				continue
			}

			switch buf[0] {
			case ' ': // Space - pause/resume
				r.TogglePause()
			case 'q', 'Q', 3: // Q or Ctrl+C - quit
				r.Quit()
			}
		}
	}
}
