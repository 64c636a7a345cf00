// Package engine implements the breathing phase state machine.
package engine

import (
	"sync"

	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/model"
)

// Phase identifies a position within one breathing cycle.
type Phase int

const (
	PhaseInhale Phase = iota
	PhaseHold
	PhaseExhale
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInhale:
		return "INHALE"
	case PhaseHold:
		return "HOLD"
	case PhaseExhale:
		return "EXHALE"
	default:
		return "UNKNOWN"
	}
}

// State represents the engine lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
	StateStopped
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for states the engine cannot leave without a
// reset.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateStopped
}

// EventType identifies engine notifications.
type EventType int

const (
	EventStarted EventType = iota
	EventPhaseChange
	EventTick
	EventPaused
	EventResumed
	EventCompleted
	EventStopped
)

// Event is delivered synchronously to every subscriber.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Snapshot is a copy of the engine state at one tick boundary.
type Snapshot struct {
	State          State
	Phase          Phase
	PhaseLength    int
	PhaseRemaining int
	Elapsed        int
	Target         int
	Cycle          int
	Completed      bool
}

// Remaining returns the seconds left until the target duration.
func (s Snapshot) Remaining() int {
	r := s.Target - s.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

// Result summarizes a finished engine run.
type Result struct {
	Completed      bool
	ElapsedSeconds int
}

// Listener receives engine events. Listeners are invoked synchronously
// on the ticking goroutine and must not block.
type Listener func(Event)

// Engine drives a repeating inhale/hold/exhale cycle toward a target
// total duration. It performs no I/O and keeps no clock of its own;
// callers advance it one second at a time via Tick.
type Engine struct {
	mu sync.Mutex

	pattern model.Pattern
	target  int

	state          State
	phase          Phase
	phaseRemaining int
	elapsed        int
	cycle          int

	listeners map[int]Listener
	nextID    int
}

// New creates an engine for the given pattern and target duration in
// seconds. The pattern must have a non-empty cycle and the target must
// be positive.
func New(pattern model.Pattern, targetSeconds int) (*Engine, error) {
	if pattern.CycleSeconds() <= 0 {
		return nil, errors.ErrInvalidPattern
	}
	if targetSeconds <= 0 {
		return nil, errors.ErrInvalidTarget
	}
	return &Engine{
		pattern:   pattern,
		target:    targetSeconds,
		state:     StateIdle,
		listeners: make(map[int]Listener),
	}, nil
}

// Subscribe registers a listener and returns its id for Unsubscribe.
func (e *Engine) Subscribe(l Listener) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = l
	return id
}

// Unsubscribe removes a previously registered listener.
func (e *Engine) Unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, id)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:          e.state,
		Phase:          e.phase,
		PhaseLength:    e.phaseDuration(e.phase),
		PhaseRemaining: e.phaseRemaining,
		Elapsed:        e.elapsed,
		Target:         e.target,
		Cycle:          e.cycle,
		Completed:      e.elapsed >= e.target,
	}
}

// Pattern returns the pattern the engine was built with.
func (e *Engine) Pattern() model.Pattern {
	return e.pattern
}

// phaseDuration returns the configured seconds for a phase.
func (e *Engine) phaseDuration(p Phase) int {
	switch p {
	case PhaseInhale:
		return e.pattern.Inhale
	case PhaseHold:
		return e.pattern.Hold
	default:
		return e.pattern.Exhale
	}
}

// nextPhase returns the phase after p and whether a new cycle began.
func nextPhase(p Phase) (Phase, bool) {
	switch p {
	case PhaseInhale:
		return PhaseHold, false
	case PhaseHold:
		return PhaseExhale, false
	default:
		return PhaseInhale, true
	}
}

// enterPhase moves to p, skipping zero-duration phases. The cycle
// always contains at least one non-zero phase, so this terminates.
func (e *Engine) enterPhase(p Phase) {
	for e.phaseDuration(p) == 0 {
		next, wrapped := nextPhase(p)
		if wrapped {
			e.cycle++
		}
		p = next
	}
	e.phase = p
	e.phaseRemaining = e.phaseDuration(p)
}

// Start transitions from Idle to Running at the first non-empty phase.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		if e.state.IsTerminal() {
			return errors.ErrEngineTerminal
		}
		return errors.NewUserError("session already started", "stop the current session first")
	}
	e.state = StateRunning
	e.cycle = 1
	e.enterPhase(PhaseInhale)
	events := []Event{
		{Type: EventStarted, Snapshot: e.snapshotLocked()},
		{Type: EventPhaseChange, Snapshot: e.snapshotLocked()},
	}
	e.mu.Unlock()

	e.emit(events...)
	return nil
}

// Tick advances the engine by one second and returns the resulting
// snapshot. Ticks are ignored while Paused and rejected after a
// terminal transition.
func (e *Engine) Tick() (Snapshot, error) {
	e.mu.Lock()
	if e.state.IsTerminal() {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, errors.ErrEngineTerminal
	}
	if e.state != StateRunning {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, nil
	}

	e.elapsed++
	e.phaseRemaining--

	var events []Event

	if e.elapsed >= e.target {
		e.state = StateCompleted
		snap := e.snapshotLocked()
		events = append(events,
			Event{Type: EventTick, Snapshot: snap},
			Event{Type: EventCompleted, Snapshot: snap},
		)
		e.mu.Unlock()
		e.emit(events...)
		return snap, nil
	}

	events = append(events, Event{Type: EventTick, Snapshot: e.snapshotLocked()})

	if e.phaseRemaining <= 0 {
		next, wrapped := nextPhase(e.phase)
		if wrapped {
			e.cycle++
		}
		e.enterPhase(next)
		events = append(events, Event{Type: EventPhaseChange, Snapshot: e.snapshotLocked()})
	}

	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.emit(events...)
	return snap, nil
}

// Pause freezes the countdown without resetting phase position.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.state.IsTerminal() {
		e.mu.Unlock()
		return errors.ErrEngineTerminal
	}
	if e.state != StateRunning {
		e.mu.Unlock()
		return nil
	}
	e.state = StatePaused
	event := Event{Type: EventPaused, Snapshot: e.snapshotLocked()}
	e.mu.Unlock()

	e.emit(event)
	return nil
}

// Resume continues from the frozen point.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.state.IsTerminal() {
		e.mu.Unlock()
		return errors.ErrEngineTerminal
	}
	if e.state != StatePaused {
		e.mu.Unlock()
		return nil
	}
	e.state = StateRunning
	event := Event{Type: EventResumed, Snapshot: e.snapshotLocked()}
	e.mu.Unlock()

	e.emit(event)
	return nil
}

// Stop ends the session. When the target has been reached the engine
// reports Completed; an early exit before the target is Stopped with
// partial credit. Stop is accepted in any non-terminal state.
func (e *Engine) Stop(earlyExit bool) (Result, error) {
	e.mu.Lock()
	if e.state.IsTerminal() {
		result := Result{Completed: e.state == StateCompleted, ElapsedSeconds: e.elapsed}
		e.mu.Unlock()
		return result, errors.ErrEngineTerminal
	}

	completed := e.elapsed >= e.target && !earlyExit
	if completed {
		e.state = StateCompleted
	} else {
		e.state = StateStopped
	}
	result := Result{Completed: e.elapsed >= e.target, ElapsedSeconds: e.elapsed}

	eventType := EventStopped
	if completed {
		eventType = EventCompleted
	}
	event := Event{Type: eventType, Snapshot: e.snapshotLocked()}
	e.mu.Unlock()

	e.emit(event)
	return result, nil
}

// Reset returns the engine to Idle so it can run again. Listeners
// stay subscribed.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateIdle
	e.phase = PhaseInhale
	e.phaseRemaining = 0
	e.elapsed = 0
	e.cycle = 0
}

// emit delivers events to subscribers. Delivery order between
// listeners is unspecified.
func (e *Engine) emit(events ...Event) {
	e.mu.Lock()
	listeners := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	for _, event := range events {
		for _, l := range listeners {
			l(event)
		}
	}
}
