package model

import (
	"fmt"
	"time"
)

// Reminder represents a scheduled practice nudge.
type Reminder struct {
	Key          string    `json:"key"`
	Title        string    `json:"title" validate:"required,max=200"`
	At           time.Time `json:"at" validate:"required"`
	Repeat       string    `json:"repeat,omitempty"` // "", "daily", "weekly"
	NotifyBefore []string  `json:"notify_before"`    // ["1h", "15m"]
	Completed    bool      `json:"completed"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	OwnerKey     string    `json:"owner_key"`
}

// SetKey sets the database key for this reminder.
func (r *Reminder) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this reminder.
func (r *Reminder) GetKey() string {
	return r.Key
}

// IsPending returns true if the reminder is not completed.
func (r *Reminder) IsPending() bool {
	return !r.Completed
}

// IsDue returns true if the reminder time has passed.
func (r *Reminder) IsDue() bool {
	return time.Now().After(r.At)
}

// IsDueWithin returns true if the reminder is due within the given duration.
func (r *Reminder) IsDueWithin(d time.Duration) bool {
	return time.Until(r.At) <= d
}

// IsRecurring returns true if the reminder repeats.
func (r *Reminder) IsRecurring() bool {
	return r.Repeat != ""
}

// NextAt calculates the next occurrence for recurring reminders.
func (r *Reminder) NextAt() time.Time {
	switch r.Repeat {
	case "daily":
		return r.At.AddDate(0, 0, 1)
	case "weekly":
		return r.At.AddDate(0, 0, 7)
	default:
		return r.At
	}
}

// TimeUntil returns the duration until the reminder fires.
func (r *Reminder) TimeUntil() time.Duration {
	return time.Until(r.At)
}

// ShortID returns the first 6 characters of the UUID for display.
func (r *Reminder) ShortID() string {
	// Key format: "reminder:uuid"
	if len(r.Key) > 15 {
		return r.Key[9:15]
	}
	return r.Key
}

// GenerateReminderKey generates a database key for a reminder using UUID.
func GenerateReminderKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixReminder, uuid)
}

// NewReminder creates a new reminder with default notification intervals.
func NewReminder(title string, at time.Time, ownerKey string) *Reminder {
	return &Reminder{
		Title:        title,
		At:           at,
		NotifyBefore: []string{"15m"},
		CreatedAt:    time.Now(),
		OwnerKey:     ownerKey,
	}
}

// ValidRepeatRules returns the valid repeat rule options.
func ValidRepeatRules() []string {
	return []string{"", "daily", "weekly"}
}

// IsValidRepeatRule checks if a repeat rule is valid.
func IsValidRepeatRule(rule string) bool {
	for _, valid := range ValidRepeatRules() {
		if rule == valid {
			return true
		}
	}
	return false
}
