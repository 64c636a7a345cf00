package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/notify"
	"github.com/stillpoint/breathe/internal/scheduler"
	"github.com/stillpoint/breathe/internal/stats"
	"github.com/stillpoint/breathe/internal/storage"
)

// Daemon runs the scheduler that delivers reminder notifications and
// performs the daily streak rollover. It owns the PID file and a small
// state file recording when it started.
type Daemon struct {
	pidFile         *PIDFile
	scheduler       *scheduler.Scheduler
	db              *storage.DB
	reminderRepo    *storage.ReminderRepo
	webhookRepo     *storage.WebhookRepo
	statsRepo       *storage.StatsRepo
	achievementRepo *storage.AchievementRepo
	configRepo      *storage.ConfigRepo
	health          *HealthChecker
	startedAt       time.Time
	debug           bool
}

// Status is what `breathe daemon status` reports.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

func NewDaemon(db *storage.DB) *Daemon {
	return &Daemon{
		pidFile:         NewPIDFile(),
		db:              db,
		reminderRepo:    storage.NewReminderRepo(db),
		webhookRepo:     storage.NewWebhookRepo(db),
		statsRepo:       storage.NewStatsRepo(db),
		achievementRepo: storage.NewAchievementRepo(db),
		configRepo:      storage.NewConfigRepo(db),
	}
}

// SetDebug passes --debug through to the background process.
func (d *Daemon) SetDebug(debug bool) {
	d.debug = debug
}

// GetStatus inspects the PID and state files without touching the
// running process.
func (d *Daemon) GetStatus() *Status {
	status := &Status{}

	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return status
	}
	status.Running = true
	status.PID = pid

	if state, err := d.readState(); err == nil {
		status.StartedAt = state.StartedAt
		status.Uptime = formatUptime(time.Since(state.StartedAt))
	}
	return status
}

func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// Start runs the daemon in the foreground until a shutdown signal or
// context cancellation, then tears down the scheduler and state files.
func (d *Daemon) Start(ctx context.Context) error {
	if d.IsRunning() {
		return ErrAlreadyRunning
	}

	if err := d.pidFile.Write(); err != nil {
		return err
	}

	d.startedAt = time.Now()
	if err := d.writeState(&DaemonState{StartedAt: d.startedAt}); err != nil {
		d.pidFile.Remove()
		return err
	}

	d.health = NewHealthChecker("")
	d.health.AddCheck("database", func() error {
		_, err := d.reminderRepo.List()
		return err
	})

	d.scheduler = scheduler.NewScheduler(d.db, config.Global.Scheduler)

	// Reminder notifications go out through registered webhooks
	dispatcher := notify.NewDispatcher(d.webhookRepo, config.Global.HTTP)
	reminderChecker := scheduler.NewReminderChecker(d.reminderRepo, dispatcher)
	d.scheduler.SetReminderChecker(reminderChecker)

	// Daily streak rollover
	aggregator := stats.New(d.statsRepo, d.achievementRepo, config.Global.Stats)
	rolloverJob := scheduler.NewRolloverJob(aggregator, d.configRepo)
	d.scheduler.SetRolloverJob(rolloverJob)

	if err := d.scheduler.Start(); err != nil {
		d.pidFile.Remove()
		return err
	}

	sigHandler := NewSignalHandler()
	sigHandler.Setup()
	defer sigHandler.Cleanup()

	logging.Info("daemon started", "pid", os.Getpid())

	if sig := sigHandler.Wait(ctx); sig != nil {
		logging.Info("received signal", "signal", sig.String())
	}

	d.scheduler.Stop()
	d.pidFile.Remove()
	d.removeState()

	return nil
}

// Health returns the daemon's health checker, or nil when not started.
func (d *Daemon) Health() *HealthChecker {
	return d.health
}

// StartBackground re-executes the breathe binary as a detached
// `daemon start --foreground` process, with its output appended to the
// daemon log file.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.GetRunningPID(), ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("locate breathe executable: %w", err)
	}

	args := []string{"daemon", "start", "--foreground"}
	if d.debug {
		args = append(args, "--debug")
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil

	logPath := GetLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			cmd.Stdout = logFile
			cmd.Stderr = logFile
		}
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("spawn daemon: %w", err)
	}

	// Give the child time to write its PID file before verifying.
	time.Sleep(config.Global.Daemon.StartupWait)

	if !d.pidFile.IsRunning() {
		if errMsg := d.lastLoggedError(); errMsg != "" {
			return 0, fmt.Errorf("daemon failed to start: %s", errMsg)
		}
		return 0, fmt.Errorf("daemon failed to start (check logs: %s)", logPath)
	}

	return cmd.Process.Pid, nil
}

// lastLoggedError scans the tail of the daemon log for a reason the
// child process died, so startup failures surface in the CLI instead
// of only in the log file.
func (d *Daemon) lastLoggedError() string {
	data, err := os.ReadFile(GetLogPath())
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := len(lines) - 10
	if start < 0 {
		start = 0
	}
	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(strings.ToLower(line), "error") ||
			strings.Contains(line, "cannot access database") ||
			strings.Contains(line, "failed to") {
			return line
		}
	}
	return ""
}

// Stop interrupts the running daemon and waits briefly for it to exit,
// escalating to SIGKILL after the configured timeout.
func (d *Daemon) Stop() error {
	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("stop daemon: %w", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case <-done:
	case <-time.After(config.Global.Daemon.KillTimeout):
		process.Kill()
	}

	d.pidFile.Remove()
	d.removeState()

	return nil
}

// DaemonState is the JSON state file written next to the PID file.
type DaemonState struct {
	StartedAt time.Time `json:"started_at"`
}

func statePath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.json")
}

func (d *Daemon) writeState(state *DaemonState) error {
	path := statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Daemon) readState() (*DaemonState, error) {
	data, err := os.ReadFile(statePath())
	if err != nil {
		return nil, err
	}
	var state DaemonState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *Daemon) removeState() {
	if err := os.Remove(statePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove daemon state file", logging.KeyError, err, "path", statePath())
	}
}

// GetLogPath returns the daemon log file location.
func GetLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.log")
}

func formatUptime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		hours, minutes := int(d.Hours()), int(d.Minutes())%60
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	days, hours := int(d.Hours()/24), int(d.Hours())%24
	if hours > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}
