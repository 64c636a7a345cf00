package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/notify"
	"github.com/stillpoint/breathe/internal/parser"
	"github.com/stillpoint/breathe/internal/storage"
)

// ReminderChecker checks for due practice reminders and sends
// notifications.
type ReminderChecker struct {
	reminderRepo *storage.ReminderRepo
	dispatcher   *notify.Dispatcher
	notified     map[string]map[string]time.Time // reminder_key -> interval -> last_notified
}

// NewReminderChecker creates a new reminder checker.
func NewReminderChecker(reminderRepo *storage.ReminderRepo, dispatcher *notify.Dispatcher) *ReminderChecker {
	return &ReminderChecker{
		reminderRepo: reminderRepo,
		dispatcher:   dispatcher,
		notified:     make(map[string]map[string]time.Time),
	}
}

// Check scans pending reminders and sends any due notifications.
func (c *ReminderChecker) Check() {
	reminders, err := c.reminderRepo.ListPending()
	if err != nil {
		logging.Logger().Warn("failed to list reminders", "error", err)
		return
	}

	var notifications []*model.Notification
	for _, reminder := range reminders {
		notifications = append(notifications, c.checkReminder(reminder)...)
	}

	if len(notifications) > 0 {
		c.sendNotifications(notifications)
	}
}

// checkReminder checks a single reminder and returns notifications to
// send. A reminder fires once at each configured NotifyBefore interval
// and once when it comes due; recurring reminders then advance to
// their next occurrence.
func (c *ReminderChecker) checkReminder(reminder *model.Reminder) []*model.Notification {
	var notifications []*model.Notification

	timeUntil := reminder.TimeUntil()

	// Advance notices
	for _, intervalStr := range reminder.NotifyBefore {
		result := parser.ParseDuration(intervalStr)
		if !result.Valid {
			continue
		}
		if !c.shouldNotify(reminder, intervalStr, result.Duration, timeUntil) {
			continue
		}
		notifications = append(notifications, c.createNotification(reminder, intervalStr))
		c.markNotified(reminder.Key, intervalStr)
	}

	// Due notification, within the last minute before the reminder time
	if timeUntil > 0 && timeUntil <= time.Minute {
		if !c.wasNotified(reminder.Key, "now") {
			notifications = append(notifications, c.createNotification(reminder, "now"))
			c.markNotified(reminder.Key, "now")
		}
	}

	// Past due: roll recurring reminders forward, retire one-shot ones
	if timeUntil <= 0 {
		c.retire(reminder)
	}

	return notifications
}

// retire advances a recurring reminder to its next occurrence or marks
// a one-shot reminder completed.
func (c *ReminderChecker) retire(reminder *model.Reminder) {
	if reminder.IsRecurring() {
		reminder.At = reminder.NextAt()
	} else {
		reminder.Completed = true
		reminder.CompletedAt = time.Now()
	}
	if err := c.reminderRepo.Update(reminder); err != nil {
		logging.Logger().Warn("failed to update reminder",
			logging.KeyReminderID, reminder.ShortID(),
			"error", err,
		)
		return
	}
	delete(c.notified, reminder.Key)
}

// shouldNotify determines if we should send a notification for this interval.
func (c *ReminderChecker) shouldNotify(reminder *model.Reminder, intervalStr string, interval, timeUntil time.Duration) bool {
	// Already past the reminder time
	if timeUntil <= 0 {
		return false
	}

	// Not within the notification window yet
	if timeUntil > interval {
		return false
	}

	// Already notified for this interval
	if c.wasNotified(reminder.Key, intervalStr) {
		return false
	}

	// Within the window: interval down to one minute inside it
	windowEnd := interval - time.Minute
	if windowEnd < 0 {
		windowEnd = 0
	}
	return timeUntil >= windowEnd
}

// wasNotified checks if we already notified for this reminder and interval.
func (c *ReminderChecker) wasNotified(reminderKey, interval string) bool {
	intervals, ok := c.notified[reminderKey]
	if !ok {
		return false
	}
	lastNotified, ok := intervals[interval]
	if !ok {
		return false
	}
	// Consider it notified if within the last 5 minutes (to avoid duplicates)
	return time.Since(lastNotified) < 5*time.Minute
}

// markNotified records that we notified for this reminder and interval.
func (c *ReminderChecker) markNotified(reminderKey, interval string) {
	if c.notified[reminderKey] == nil {
		c.notified[reminderKey] = make(map[string]time.Time)
	}
	c.notified[reminderKey][interval] = time.Now()
}

// createNotification creates a notification for a reminder.
func (c *ReminderChecker) createNotification(reminder *model.Reminder, interval string) *model.Notification {
	var title, message string
	if interval == "now" {
		title = fmt.Sprintf("Time to breathe: %s", reminder.Title)
		message = "Your practice reminder is due now."
	} else {
		title = fmt.Sprintf("Upcoming practice: %s", reminder.Title)
		message = fmt.Sprintf("Starts at %s.", reminder.At.Format("3:04 PM"))
	}

	return model.NewNotification("reminder", title, message)
}

// sendNotifications sends all pending notifications.
func (c *ReminderChecker) sendNotifications(notifications []*model.Notification) {
	ctx := context.Background()

	for _, notification := range notifications {
		results := c.dispatcher.SendNotification(ctx, notification)
		for _, result := range results {
			if !result.Success {
				logging.Logger().Warn("reminder notification failed",
					logging.KeyWebhook, result.WebhookName,
					"error", result.Error,
				)
			}
		}
	}
}

// CleanupNotified removes notification records for reminders that no
// longer exist or are already completed.
func (c *ReminderChecker) CleanupNotified() {
	for key := range c.notified {
		reminder, err := c.reminderRepo.Get(key)
		if err != nil || reminder.Completed {
			delete(c.notified, key)
		}
	}
}
