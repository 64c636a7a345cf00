package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/model"
)

// SessionFilter narrows the set of session records returned by
// ListFiltered. Zero values leave a dimension unconstrained.
type SessionFilter struct {
	From          time.Time
	Until         time.Time
	CompletedOnly bool
	Limit         int
}

// Matches reports whether a record passes the filter. Limit is applied
// by the caller after sorting, not here.
func (f SessionFilter) Matches(s *model.SessionRecord) bool {
	if !f.From.IsZero() && s.StartedAt.Before(f.From) {
		return false
	}
	if !f.Until.IsZero() && !s.StartedAt.Before(f.Until) {
		return false
	}
	if f.CompletedOnly && !s.Completed {
		return false
	}
	return true
}

// SessionRepo provides operations for SessionRecord entities.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create persists a finalized session record with a generated key.
func (r *SessionRepo) Create(session *model.SessionRecord) error {
	// Generate UUID v7 for time-sortable keys
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	session.Key = model.GenerateSessionKey(id.String())
	return r.db.Set(session)
}

// Get retrieves a session record by key.
func (r *SessionRepo) Get(key string) (*model.SessionRecord, error) {
	session := &model.SessionRecord{}
	if err := r.db.Get(key, session); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// List retrieves all session records, newest first.
func (r *SessionRepo) List() ([]*model.SessionRecord, error) {
	return r.ListFiltered(SessionFilter{})
}

// ListFiltered retrieves session records matching the filter, newest
// first. Limit caps the result after sorting, so it returns the most
// recent matches.
func (r *SessionRepo) ListFiltered(filter SessionFilter) ([]*model.SessionRecord, error) {
	sessions, err := GetFilteredByPrefix(r.db, model.PrefixSession+":", func() *model.SessionRecord {
		return &model.SessionRecord{}
	}, filter.Matches, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	if filter.Limit > 0 && len(sessions) > filter.Limit {
		sessions = sessions[:filter.Limit]
	}
	return sessions, nil
}

// Count returns the total number of stored session records.
func (r *SessionRepo) Count() (int, error) {
	keys, err := r.db.ListByPrefix(model.PrefixSession + ":")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
