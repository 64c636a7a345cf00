// Package e2e provides end-to-end tests for the Breathe CLI.
//
// These tests verify the complete behavior of CLI commands by running
// the actual binary and validating outputs. Tests use a temporary
// database directory that is cleaned up after each test. Commands that
// need an interactive terminal (the breathing session itself, the
// dashboard) are exercised at the integration level instead.
package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testContext holds test configuration and provides helper methods.
type testContext struct {
	t         *testing.T
	binaryDir string
	dbDir     string
}

// setup creates a new test context with a temporary database directory.
// It returns the context and ensures the binary is built.
func setup(t *testing.T) *testContext {
	t.Helper()

	dbDir, err := os.MkdirTemp("", "breathe-e2e-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		os.RemoveAll(dbDir)
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Navigate to project root (two levels up from tests/e2e)
	projectRoot := filepath.Join(wd, "..", "..")
	binaryPath := filepath.Join(projectRoot, "breathe")

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		cmd := exec.Command("go", "build", "-o", "breathe", ".")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			os.RemoveAll(dbDir)
			t.Fatalf("failed to build binary: %v\n%s", err, output)
		}
	}

	return &testContext{
		t:         t,
		binaryDir: projectRoot,
		dbDir:     dbDir,
	}
}

// cleanup removes the temporary database directory.
func (tc *testContext) cleanup() {
	if tc.dbDir != "" {
		os.RemoveAll(tc.dbDir)
	}
}

// run executes the breathe CLI with the given arguments.
// It sets BREATHE_DATABASE to use the test database directory.
func (tc *testContext) run(args ...string) (stdout, stderr string, err error) {
	tc.t.Helper()

	binaryPath := filepath.Join(tc.binaryDir, "breathe")
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "BREATHE_DATABASE="+filepath.Join(tc.dbDir, "breathe.db"))

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// runJSON executes the breathe CLI with JSON output format.
func (tc *testContext) runJSON(args ...string) (stdout, stderr string, err error) {
	tc.t.Helper()
	allArgs := append([]string{"--format", "json"}, args...)
	return tc.run(allArgs...)
}

// mustRun executes the CLI and fails the test if there's an error.
func (tc *testContext) mustRun(args ...string) string {
	tc.t.Helper()
	stdout, stderr, err := tc.run(args...)
	if err != nil {
		tc.t.Fatalf("command failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	return stdout
}

// mustRunJSON executes the CLI with JSON output and fails the test if there's an error.
func (tc *testContext) mustRunJSON(args ...string) string {
	tc.t.Helper()
	stdout, stderr, err := tc.runJSON(args...)
	if err != nil {
		tc.t.Fatalf("command failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	return stdout
}

// parseJSON parses JSON output into the provided structure.
func (tc *testContext) parseJSON(stdout string, v interface{}) {
	tc.t.Helper()
	if err := json.Unmarshal([]byte(stdout), v); err != nil {
		tc.t.Fatalf("failed to parse JSON output: %v\noutput: %s", err, stdout)
	}
}

// =============================================================================
// Version and Help Tests
// =============================================================================

func TestCLI_Version(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	stdout := tc.mustRun("version")
	if !strings.Contains(stdout, "breathe") {
		t.Errorf("version output missing binary name: %s", stdout)
	}
}

func TestCLI_Help(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	stdout := tc.mustRun("--help")
	for _, cmd := range []string{"start", "pattern", "stats", "history", "remind", "webhook"} {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("help output missing %q command:\n%s", cmd, stdout)
		}
	}
}

// =============================================================================
// Pattern Tests
// =============================================================================

func TestCLI_PatternLifecycle(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	t.Run("list shows presets", func(t *testing.T) {
		var resp struct {
			Patterns []struct {
				Name   string `json:"name"`
				Spec   string `json:"spec"`
				Custom bool   `json:"custom"`
			} `json:"patterns"`
		}
		tc.parseJSON(tc.mustRunJSON("pattern", "list"), &resp)

		if len(resp.Patterns) != 4 {
			t.Fatalf("expected 4 presets, got %d", len(resp.Patterns))
		}
		specs := map[string]string{}
		for _, p := range resp.Patterns {
			specs[p.Name] = p.Spec
			if p.Custom {
				t.Errorf("preset %q marked custom", p.Name)
			}
		}
		if specs["box"] != "4-4-4" || specs["relaxing"] != "4-7-8" {
			t.Errorf("unexpected preset specs: %v", specs)
		}
	})

	t.Run("add custom pattern", func(t *testing.T) {
		tc.mustRun("pattern", "add", "evening", "6-2-8")

		var resp struct {
			Patterns []struct {
				Name   string `json:"name"`
				Custom bool   `json:"custom"`
			} `json:"patterns"`
		}
		tc.parseJSON(tc.mustRunJSON("pattern", "list"), &resp)
		if len(resp.Patterns) != 5 {
			t.Fatalf("expected 5 patterns after add, got %d", len(resp.Patterns))
		}
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		_, stderr, err := tc.run("pattern", "add", "evening", "4-4-4")
		if err == nil {
			t.Error("expected duplicate pattern add to fail")
		}
		if stderr == "" {
			t.Error("expected an error message on stderr")
		}
	})

	t.Run("preset name fails", func(t *testing.T) {
		_, _, err := tc.run("pattern", "add", "box", "4-4-4")
		if err == nil {
			t.Error("expected preset name collision to fail")
		}
	})

	t.Run("remove custom pattern", func(t *testing.T) {
		tc.mustRun("pattern", "remove", "evening", "--force")

		var resp struct {
			Patterns []struct{} `json:"patterns"`
		}
		tc.parseJSON(tc.mustRunJSON("pattern", "list"), &resp)
		if len(resp.Patterns) != 4 {
			t.Errorf("expected presets only after remove, got %d", len(resp.Patterns))
		}
	})
}

// =============================================================================
// Stats and History Tests
// =============================================================================

func TestCLI_StatsEmpty(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	var resp struct {
		TotalSessions int `json:"total_sessions"`
		TotalMinutes  int `json:"total_minutes"`
		StreakDays    int `json:"streak_days"`
	}
	tc.parseJSON(tc.mustRunJSON("stats"), &resp)

	if resp.TotalSessions != 0 || resp.TotalMinutes != 0 || resp.StreakDays != 0 {
		t.Errorf("fresh database should report zeroed stats: %+v", resp)
	}
}

func TestCLI_HistoryEmpty(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	var resp struct {
		Sessions   []struct{} `json:"sessions"`
		TotalCount int        `json:"total_count"`
	}
	tc.parseJSON(tc.mustRunJSON("history"), &resp)

	if resp.TotalCount != 0 {
		t.Errorf("expected no sessions in a fresh database, got %d", resp.TotalCount)
	}
}

func TestCLI_AchievementsEmpty(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	var resp struct {
		Unlocked []struct{} `json:"unlocked"`
		Locked   []string   `json:"locked"`
	}
	tc.parseJSON(tc.mustRunJSON("achievements"), &resp)

	if len(resp.Unlocked) != 0 {
		t.Errorf("fresh database should have no unlocks")
	}
	if len(resp.Locked) != 9 {
		t.Errorf("expected 9 locked achievements, got %d", len(resp.Locked))
	}
}

// =============================================================================
// Reminder Tests
// =============================================================================

func TestCLI_ReminderLifecycle(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	tc.mustRun("remind", "evening practice", "+2h")

	t.Run("list shows pending reminder", func(t *testing.T) {
		var resp struct {
			Reminders []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"reminders"`
			Count int `json:"count"`
		}
		tc.parseJSON(tc.mustRunJSON("remind", "list"), &resp)

		if resp.Count != 1 {
			t.Fatalf("expected 1 reminder, got %d", resp.Count)
		}
		if resp.Reminders[0].Title != "evening practice" {
			t.Errorf("unexpected title %q", resp.Reminders[0].Title)
		}
	})

	t.Run("done completes by title", func(t *testing.T) {
		tc.mustRun("remind", "done", "evening practice")

		var resp struct {
			Count int `json:"count"`
		}
		tc.parseJSON(tc.mustRunJSON("remind", "list"), &resp)
		if resp.Count != 0 {
			t.Errorf("expected no pending reminders, got %d", resp.Count)
		}
	})

	t.Run("past time is rejected", func(t *testing.T) {
		_, _, err := tc.run("remind", "too late", "2020-01-01 08:00")
		if err == nil {
			t.Error("expected a past reminder time to fail")
		}
	})
}

// =============================================================================
// Webhook Tests
// =============================================================================

func TestCLI_WebhookLifecycle(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	tc.mustRun("webhook", "add", "alerts", "https://hooks.slack.com/services/T00/B00/XXX")

	t.Run("service is detected from the URL", func(t *testing.T) {
		stdout := tc.mustRun("webhook", "list")
		if !strings.Contains(stdout, "alerts") || !strings.Contains(stdout, "slack") {
			t.Errorf("webhook list missing expected fields:\n%s", stdout)
		}
	})

	t.Run("http external URL is rejected", func(t *testing.T) {
		_, _, err := tc.run("webhook", "add", "insecure", "http://example.com/hook")
		if err == nil {
			t.Error("expected plain http webhook to be rejected")
		}
	})

	t.Run("internal IP is rejected", func(t *testing.T) {
		_, _, err := tc.run("webhook", "add", "internal", "https://169.254.169.254/hook")
		if err == nil {
			t.Error("expected internal IP webhook to be rejected")
		}
	})

	t.Run("disable and enable", func(t *testing.T) {
		tc.mustRun("webhook", "disable", "alerts")
		tc.mustRun("webhook", "enable", "alerts")
	})

	t.Run("remove", func(t *testing.T) {
		tc.mustRun("webhook", "remove", "alerts", "--force")
		stdout := tc.mustRun("webhook", "list")
		if strings.Contains(stdout, "alerts") {
			t.Errorf("removed webhook still listed:\n%s", stdout)
		}
	})
}

// =============================================================================
// Config Tests
// =============================================================================

func TestCLI_Config(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	t.Run("set and get default pattern", func(t *testing.T) {
		tc.mustRun("config", "set", "default-pattern", "relaxing")
		stdout := tc.mustRun("config", "get", "default-pattern")
		if !strings.Contains(stdout, "relaxing") {
			t.Errorf("expected default-pattern to be relaxing:\n%s", stdout)
		}
	})

	t.Run("unknown pattern is rejected", func(t *testing.T) {
		_, _, err := tc.run("config", "set", "default-pattern", "no-such-pattern")
		if err == nil {
			t.Error("expected unknown default pattern to fail")
		}
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		_, _, err := tc.run("config", "set", "nonsense", "value")
		if err == nil {
			t.Error("expected unknown config key to fail")
		}
	})
}

// =============================================================================
// Export Tests
// =============================================================================

func TestCLI_Export(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	outPath := filepath.Join(tc.dbDir, "export.json")
	tc.mustRun("export", "--out", outPath)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}

	var doc struct {
		ExportedAt string `json:"exported_at"`
		Patterns   []struct {
			Name string `json:"name"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.ExportedAt == "" {
		t.Error("export missing timestamp")
	}
	if len(doc.Patterns) < 4 {
		t.Errorf("export missing presets, got %d patterns", len(doc.Patterns))
	}
}

// =============================================================================
// Output Format Tests
// =============================================================================

func TestCLI_UnknownFormatFallsBackToCLI(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	stdout := tc.mustRun("--format", "xml", "stats")
	if strings.HasPrefix(strings.TrimSpace(stdout), "{") {
		t.Errorf("unknown format should fall back to human output:\n%s", stdout)
	}
}

func TestCLI_UnknownCommand(t *testing.T) {
	tc := setup(t)
	defer tc.cleanup()

	_, _, err := tc.run("definitely-not-a-command")
	if err == nil {
		t.Error("expected unknown command to fail")
	}
}
