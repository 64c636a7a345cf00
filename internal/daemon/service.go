package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/adrg/xdg"
)

// ServiceManager installs the breathe daemon as a user-level service
// so reminders fire without a manual `breathe daemon start`.
type ServiceManager struct {
	executablePath string
	debug          bool
}

func NewServiceManager() (*ServiceManager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate breathe executable: %w", err)
	}
	return &ServiceManager{executablePath: execPath}, nil
}

// SetDebug enables install/uninstall progress output.
func (m *ServiceManager) SetDebug(debug bool) {
	m.debug = debug
}

// Install registers the daemon with launchd or systemd depending on
// the host OS.
func (m *ServiceManager) Install() error {
	switch runtime.GOOS {
	case "darwin":
		return m.installLaunchd()
	case "linux":
		return m.installSystemd()
	case "windows":
		return fmt.Errorf("Windows service installation not yet supported")
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// Uninstall removes the daemon service registration.
func (m *ServiceManager) Uninstall() error {
	switch runtime.GOOS {
	case "darwin":
		return m.uninstallLaunchd()
	case "linux":
		return m.uninstallSystemd()
	case "windows":
		return fmt.Errorf("Windows service uninstallation not yet supported")
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// IsInstalled reports whether a service definition is present.
func (m *ServiceManager) IsInstalled() bool {
	switch runtime.GOOS {
	case "darwin":
		return m.isLaunchdInstalled()
	case "linux":
		return m.isSystemdInstalled()
	default:
		return false
	}
}

// renderUnitFile writes a service definition from tmplText to path,
// creating parent directories as needed.
func renderUnitFile(path, tmplText string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create service directory: %w", err)
	}
	tmpl, err := template.New(filepath.Base(path)).Parse(tmplText)
	if err != nil {
		return fmt.Errorf("parse service template: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create service file: %w", err)
	}
	defer file.Close()
	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("render service file: %w", err)
	}
	return nil
}

// mustRun executes a service-manager command and surfaces its output
// on failure.
func mustRun(name string, args ...string) error {
	if output, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s %v: %w: %s", name, args, err, string(output))
	}
	return nil
}

// macOS launchd

const launchdPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.stillpoint.breathe</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
        <string>daemon</string>
        <string>start</string>
        <string>--foreground</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>{{.LogPath}}</string>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
    <key>WorkingDirectory</key>
    <string>{{.WorkingDirectory}}</string>
</dict>
</plist>
`

func (m *ServiceManager) launchdPlistPath() string {
	return filepath.Join(os.Getenv("HOME"), "Library", "LaunchAgents", "com.stillpoint.breathe.plist")
}

func (m *ServiceManager) installLaunchd() error {
	plistPath := m.launchdPlistPath()

	err := renderUnitFile(plistPath, launchdPlist, struct {
		ExecutablePath   string
		LogPath          string
		WorkingDirectory string
	}{
		ExecutablePath:   m.executablePath,
		LogPath:          GetLogPath(),
		WorkingDirectory: filepath.Dir(m.executablePath),
	})
	if err != nil {
		return err
	}

	if err := mustRun("launchctl", "load", plistPath); err != nil {
		return err
	}

	if m.debug {
		fmt.Printf("[DEBUG] Installed launchd agent at %s\n", plistPath)
	}
	return nil
}

func (m *ServiceManager) uninstallLaunchd() error {
	plistPath := m.launchdPlistPath()

	// Unload may fail when the agent was never loaded.
	exec.Command("launchctl", "unload", plistPath).Run()

	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plist: %w", err)
	}

	if m.debug {
		fmt.Printf("[DEBUG] Removed launchd agent from %s\n", plistPath)
	}
	return nil
}

func (m *ServiceManager) isLaunchdInstalled() bool {
	_, err := os.Stat(m.launchdPlistPath())
	return err == nil
}

// Linux systemd

const systemdUnit = `[Unit]
Description=Breathe Reminder Daemon
After=network.target

[Service]
Type=simple
ExecStart={{.ExecutablePath}} daemon start --foreground
Restart=on-failure
RestartSec=5
StandardOutput=append:{{.LogPath}}
StandardError=append:{{.LogPath}}
Environment="HOME={{.HomeDirectory}}"
Environment="XDG_DATA_HOME={{.DataHome}}"
Environment="XDG_STATE_HOME={{.StateHome}}"

[Install]
WantedBy=default.target
`

func (m *ServiceManager) systemdUnitPath() string {
	return filepath.Join(xdg.ConfigHome, "systemd", "user", "breathe.service")
}

func (m *ServiceManager) installSystemd() error {
	unitPath := m.systemdUnitPath()

	err := renderUnitFile(unitPath, systemdUnit, struct {
		ExecutablePath string
		LogPath        string
		HomeDirectory  string
		DataHome       string
		StateHome      string
	}{
		ExecutablePath: m.executablePath,
		LogPath:        GetLogPath(),
		HomeDirectory:  os.Getenv("HOME"),
		DataHome:       xdg.DataHome,
		StateHome:      xdg.StateHome,
	})
	if err != nil {
		return err
	}

	for _, args := range [][]string{
		{"--user", "daemon-reload"},
		{"--user", "enable", "breathe.service"},
		{"--user", "start", "breathe.service"},
	} {
		if err := mustRun("systemctl", args...); err != nil {
			return err
		}
	}

	if m.debug {
		fmt.Printf("[DEBUG] Installed systemd user unit at %s\n", unitPath)
	}
	return nil
}

func (m *ServiceManager) uninstallSystemd() error {
	unitPath := m.systemdUnitPath()

	// Stop and disable may fail when the unit is already inactive.
	exec.Command("systemctl", "--user", "stop", "breathe.service").Run()
	exec.Command("systemctl", "--user", "disable", "breathe.service").Run()

	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove unit file: %w", err)
	}

	exec.Command("systemctl", "--user", "daemon-reload").Run()

	if m.debug {
		fmt.Printf("[DEBUG] Removed systemd user unit from %s\n", unitPath)
	}
	return nil
}

func (m *ServiceManager) isSystemdInstalled() bool {
	_, err := os.Stat(m.systemdUnitPath())
	return err == nil
}
