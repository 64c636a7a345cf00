package daemon

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"
)

// HealthStatus is the snapshot `breathe daemon status` prints.
type HealthStatus struct {
	Status           string    `json:"status"`
	UptimeSeconds    int64     `json:"uptime_seconds"`
	MemoryMB         float64   `json:"memory_mb"`
	PendingReminders int       `json:"pending_reminders"`
	LastCheck        time.Time `json:"last_check"`
	Version          string    `json:"version,omitempty"`
	Goroutines       int       `json:"goroutines"`
}

// HealthChecker tracks daemon liveness. The scheduler reports its
// pending-reminder count here, and registered probe functions (such as
// a database read) decide healthy versus unhealthy.
type HealthChecker struct {
	mu               sync.RWMutex
	startTime        time.Time
	lastCheck        time.Time
	pendingReminders int
	version          string
	probes           map[string]func() error
}

func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		version:   version,
		probes:    make(map[string]func() error),
	}
}

// Check runs the probes and assembles a status snapshot.
func (h *HealthChecker) Check() *HealthStatus {
	h.mu.Lock()
	h.lastCheck = time.Now()
	h.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.mu.RLock()
	pending := h.pendingReminders
	checked := h.lastCheck
	h.mu.RUnlock()

	return &HealthStatus{
		Status:           h.overallStatus(),
		UptimeSeconds:    int64(time.Since(h.startTime).Seconds()),
		MemoryMB:         float64(memStats.Alloc) / 1024 / 1024,
		PendingReminders: pending,
		LastCheck:        checked,
		Version:          h.version,
		Goroutines:       runtime.NumGoroutine(),
	}
}

// overallStatus is unhealthy as soon as any probe fails.
func (h *HealthChecker) overallStatus() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, probe := range h.probes {
		if err := probe(); err != nil {
			return "unhealthy"
		}
	}
	return "healthy"
}

// SetPendingReminders records how many reminders await delivery.
func (h *HealthChecker) SetPendingReminders(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pendingReminders = count
}

// AddCheck registers a named probe.
func (h *HealthChecker) AddCheck(name string, check func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[name] = check
}

// RemoveCheck drops a named probe.
func (h *HealthChecker) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.probes, name)
}

// JSON renders the current status snapshot as indented JSON.
func (h *HealthChecker) JSON() ([]byte, error) {
	return json.MarshalIndent(h.Check(), "", "  ")
}

// Uptime reports time since the checker was created.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}

// IsHealthy reports whether every probe currently passes.
func (h *HealthChecker) IsHealthy() bool {
	return h.overallStatus() == "healthy"
}
