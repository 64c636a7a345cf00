package model

import (
	"fmt"
	"time"
)

// SessionRecord represents one breathing session: when it started, the
// pattern used, how long it actually ran, and whether the full target
// duration was reached. Records are append-only once finalized.
type SessionRecord struct {
	Key            string    `json:"key"`
	OwnerKey       string    `json:"owner_key" validate:"required"`
	PatternName    string    `json:"pattern_name" validate:"required,max=64"`
	PatternSpec    string    `json:"pattern_spec"`
	StartedAt      time.Time `json:"started_at" validate:"required"`
	TargetSeconds  int       `json:"target_seconds"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Completed      bool      `json:"completed"`
	CompletedAt    time.Time `json:"completed_at,omitempty"`
}

// SetKey sets the database key for this session record.
func (s *SessionRecord) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this session record.
func (s *SessionRecord) GetKey() string {
	return s.Key
}

// IsFinalized returns true once the record has been closed out.
func (s *SessionRecord) IsFinalized() bool {
	return !s.CompletedAt.IsZero()
}

// Duration returns the elapsed session time.
func (s *SessionRecord) Duration() time.Duration {
	return time.Duration(s.ElapsedSeconds) * time.Second
}

// Minutes returns whole elapsed minutes, rounding down.
func (s *SessionRecord) Minutes() int {
	return s.ElapsedSeconds / 60
}

// ShortID returns the first 6 characters of the UUID for display.
func (s *SessionRecord) ShortID() string {
	// Key format: "session:uuid"
	if len(s.Key) > 14 {
		return s.Key[8:14]
	}
	return s.Key
}

// GenerateSessionKey generates a database key for a session using UUID v7.
func GenerateSessionKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixSession, uuid)
}

// NewSessionRecord opens a new, not-yet-finalized session record.
func NewSessionRecord(ownerKey string, pattern Pattern, target time.Duration, start time.Time) *SessionRecord {
	return &SessionRecord{
		OwnerKey:      ownerKey,
		PatternName:   pattern.Name,
		PatternSpec:   pattern.Spec(),
		StartedAt:     start,
		TargetSeconds: int(target.Seconds()),
	}
}
