// Package recorder tracks the active session and persists its summary.
package recorder

import (
	"sync"
	"time"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/engine"
	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/model"
)

// SessionStore is the slice of the storage layer the recorder needs.
type SessionStore interface {
	Create(*model.SessionRecord) error
}

// Recorder accumulates elapsed time for the active session and writes
// the summary record once the session ends. One recorder handles one
// session at a time.
type Recorder struct {
	mu sync.Mutex

	sessions SessionStore
	cfg      config.RecorderConfig

	record *model.SessionRecord
}

// New creates a recorder backed by the given session store.
func New(sessions SessionStore, cfg config.RecorderConfig) *Recorder {
	return &Recorder{
		sessions: sessions,
		cfg:      cfg,
	}
}

// Begin opens a new in-memory session record.
func (r *Recorder) Begin(ownerKey string, pattern model.Pattern, target time.Duration, start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = model.NewSessionRecord(ownerKey, pattern, target, start)
}

// Observe updates the elapsed time from an engine snapshot.
func (r *Recorder) Observe(snap engine.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil || r.record.IsFinalized() {
		return
	}
	r.record.ElapsedSeconds = snap.Elapsed
}

// Attach subscribes the recorder to an engine so elapsed time tracks
// every tick. Begin and Finalize stay explicit: persistence errors
// must reach the caller, not vanish inside a listener.
func (r *Recorder) Attach(e *engine.Engine) int {
	return e.Subscribe(func(ev engine.Event) {
		if ev.Type == engine.EventTick {
			r.Observe(ev.Snapshot)
		}
	})
}

// Record returns the active in-memory record, or nil.
func (r *Recorder) Record() *model.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record
}

// Finalize closes out the active session and persists it. Sessions
// shorter than the configured minimum are discarded and Finalize
// returns nil. A failed write is retried before the error surfaces;
// the in-memory record survives either way so the caller can retry.
func (r *Recorder) Finalize(result engine.Result, now time.Time) (*model.SessionRecord, error) {
	r.mu.Lock()
	record := r.record
	r.mu.Unlock()

	if record == nil {
		return nil, errors.ErrSessionNotFound
	}
	if record.IsFinalized() {
		return nil, errors.ErrSessionFinalized
	}

	record.ElapsedSeconds = result.ElapsedSeconds
	record.Completed = result.Completed

	if record.ElapsedSeconds < r.cfg.MinSessionSeconds {
		logging.Logger().Debug("discarding short session",
			logging.KeyPattern, record.PatternName,
			logging.KeyCount, record.ElapsedSeconds,
		)
		r.mu.Lock()
		r.record = nil
		r.mu.Unlock()
		return nil, nil
	}

	record.CompletedAt = now

	var err error
	for attempt := 0; attempt <= r.cfg.PersistRetries; attempt++ {
		if err = r.sessions.Create(record); err == nil {
			break
		}
		logging.Logger().Warn("session write failed",
			logging.KeyOperation, "recorder.finalize",
			logging.KeyCount, attempt+1,
			"error", err,
		)
	}
	if err != nil {
		// Leave the record open so a later Finalize can retry
		record.CompletedAt = time.Time{}
		return nil, errors.NewSystemErrorWithOp("recorder.finalize", "failed to save session", err)
	}

	logging.Logger().Debug("session saved",
		logging.KeySessionID, record.ShortID(),
		logging.KeyPattern, record.PatternName,
		logging.KeyCount, record.ElapsedSeconds,
	)

	r.mu.Lock()
	r.record = nil
	r.mu.Unlock()
	return record, nil
}
