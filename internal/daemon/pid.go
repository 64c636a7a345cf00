// Package daemon runs the background process that drives reminder
// delivery and the nightly streak rollover.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
)

const (
	// AppName names the per-user runtime directory.
	AppName = "breathe"
	// PIDFileName is the file holding the daemon's process ID.
	PIDFileName = "breathe.pid"
)

var (
	ErrNotRunning     = errors.New("daemon is not running")
	ErrAlreadyRunning = errors.New("daemon is already running")
)

// PIDFile records which process owns the daemon role so a second
// `breathe daemon start` can refuse to double-run.
type PIDFile struct {
	path string
}

func NewPIDFile() *PIDFile {
	return &PIDFile{path: GetPIDFilePath()}
}

// GetPIDFilePath returns the PID file location under the XDG state
// directory. The runtime dir would also fit but is absent on macOS.
func GetPIDFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, PIDFileName)
}

// Write records the current process as the daemon owner.
func (p *PIDFile) Write() error {
	return p.WritePID(os.Getpid())
}

// WritePID records pid as the daemon owner, creating the state
// directory when needed.
func (p *PIDFile) WritePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create daemon state directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// Read returns the recorded PID, or ErrNotRunning when no file exists.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("PID file is corrupt: %w", err)
	}
	return pid, nil
}

// Remove deletes the PID file. A missing file is not an error.
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}

func (p *PIDFile) Exists() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// IsRunning reports whether the recorded process is alive. A stale
// file left by a crashed daemon reads as not running.
func (p *PIDFile) IsRunning() bool {
	pid, err := p.Read()
	if err != nil {
		return false
	}
	return IsProcessRunning(pid)
}

// GetRunningPID returns the live daemon's PID, or 0 when the daemon is
// stopped or the file is stale.
func (p *PIDFile) GetRunningPID() int {
	pid, err := p.Read()
	if err != nil || !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

func (p *PIDFile) Path() string {
	return p.path
}

// IsProcessRunning probes pid with signal 0. On Unix, os.FindProcess
// succeeds for any pid, so only the signal result is meaningful.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
