// Package scheduler provides cron-based task scheduling for the daemon.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/storage"
)

// Scheduler manages scheduled tasks using cron.
type Scheduler struct {
	cron *cron.Cron
	db   *storage.DB
	cfg  config.SchedulerConfig

	mu        sync.Mutex
	lastCheck time.Time

	reminderChecker *ReminderChecker
	rolloverJob     *RolloverJob
}

// NewScheduler creates a new scheduler.
func NewScheduler(db *storage.DB, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		db:   db,
		cfg:  cfg,
	}
}

// SetReminderChecker sets the reminder checker.
func (s *Scheduler) SetReminderChecker(checker *ReminderChecker) {
	s.reminderChecker = checker
}

// SetRolloverJob sets the daily streak rollover job.
func (s *Scheduler) SetRolloverJob(job *RolloverJob) {
	s.rolloverJob = job
}

// Start starts the scheduler with all configured jobs.
func (s *Scheduler) Start() error {
	s.lastCheck = time.Now()

	// Minute-based reminder checks
	_, err := s.cron.AddFunc("0 * * * * *", func() {
		s.runMinuteChecks()
	})
	if err != nil {
		return fmt.Errorf("failed to add minute checks: %w", err)
	}

	// Daily streak rollover shortly after midnight
	_, err = s.cron.AddFunc(s.cfg.RolloverSpec, func() {
		s.runRollover()
	})
	if err != nil {
		return fmt.Errorf("failed to add rollover job: %w", err)
	}

	s.cron.Start()
	logging.Logger().Debug("scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	logging.Logger().Debug("scheduler stopped")
}

// runMinuteChecks runs checks that need to happen every minute.
func (s *Scheduler) runMinuteChecks() {
	s.mu.Lock()
	elapsed := time.Since(s.lastCheck)
	s.lastCheck = time.Now()
	s.mu.Unlock()

	// Skip if system was sleeping
	if elapsed > s.cfg.SleepThreshold {
		logging.Logger().Debug("skipping stale checks after sleep",
			logging.KeyCount, int(elapsed.Seconds()),
		)
		return
	}

	if s.reminderChecker != nil {
		s.reminderChecker.Check()
	}
}

// runRollover breaks stale streaks at the day boundary.
func (s *Scheduler) runRollover() {
	if s.rolloverJob == nil {
		return
	}
	s.rolloverJob.Run(time.Now())
}

// AddJob adds a custom job to the scheduler.
func (s *Scheduler) AddJob(spec string, job func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, job)
}

// RemoveJob removes a job from the scheduler.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.cron.Remove(id)
}

// Entries returns all scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextRun returns the next scheduled run time for any job.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}
