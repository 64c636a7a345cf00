package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/model"
)

// ReminderRepo provides operations for Reminder entities.
type ReminderRepo struct {
	db *DB
}

// NewReminderRepo creates a new reminder repository.
func NewReminderRepo(db *DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Create creates a new reminder with a generated key.
func (r *ReminderRepo) Create(reminder *model.Reminder) error {
	// Generate UUID v7 for time-sortable keys
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	reminder.Key = model.GenerateReminderKey(id.String())
	return r.db.Set(reminder)
}

// Get retrieves a reminder by key.
func (r *ReminderRepo) Get(key string) (*model.Reminder, error) {
	reminder := &model.Reminder{}
	if err := r.db.Get(key, reminder); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrReminderNotFound
		}
		return nil, err
	}
	return reminder, nil
}

// GetByShortID retrieves a reminder by short ID prefix.
func (r *ReminderRepo) GetByShortID(shortID string) (*model.Reminder, error) {
	matches, err := GetFilteredByPrefix(r.db, model.PrefixReminder+":", func() *model.Reminder {
		return &model.Reminder{}
	}, func(rem *model.Reminder) bool {
		return strings.HasPrefix(rem.ShortID(), shortID)
	}, 2)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.ErrReminderNotFound
	}
	if len(matches) > 1 {
		return nil, errors.NewUserError("ambiguous reminder ID", "use more characters of the ID")
	}
	return matches[0], nil
}

// Update stores changes to an existing reminder.
func (r *ReminderRepo) Update(reminder *model.Reminder) error {
	exists, err := r.db.Exists(reminder.Key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.ErrReminderNotFound
	}
	return r.db.Set(reminder)
}

// MarkComplete marks a reminder as completed.
func (r *ReminderRepo) MarkComplete(key string) error {
	reminder, err := r.Get(key)
	if err != nil {
		return err
	}
	reminder.Completed = true
	reminder.CompletedAt = time.Now()
	return r.db.Set(reminder)
}

// Delete removes a reminder.
func (r *ReminderRepo) Delete(key string) error {
	return r.db.Delete(key)
}

// List retrieves all reminders, soonest first.
func (r *ReminderRepo) List() ([]*model.Reminder, error) {
	reminders, err := GetAllByPrefix(r.db, model.PrefixReminder+":", func() *model.Reminder {
		return &model.Reminder{}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].At.Before(reminders[j].At)
	})
	return reminders, nil
}

// ListPending retrieves reminders that have not been completed yet.
func (r *ReminderRepo) ListPending() ([]*model.Reminder, error) {
	reminders, err := GetFilteredByPrefix(r.db, model.PrefixReminder+":", func() *model.Reminder {
		return &model.Reminder{}
	}, func(rem *model.Reminder) bool {
		return rem.IsPending()
	}, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].At.Before(reminders[j].At)
	})
	return reminders, nil
}
