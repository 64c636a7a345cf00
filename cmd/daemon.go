package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/daemon"
	"github.com/stillpoint/breathe/internal/notify"
)

var (
	daemonStartFlagForeground bool
	daemonLogsFlagTail        int
	daemonInstallFlagForce    bool
)

var daemonCmd = &cobra.Command{
	Use:     "daemon [command]",
	Aliases: []string{"d", "bg"},
	Short:   "Manage the background daemon",
	Long: `Manage the Breathe background daemon that delivers practice
reminders through webhooks and rolls streaks over at midnight.

Examples:
  breathe daemon start
  breathe daemon status
  breathe daemon stop
  breathe daemon logs --tail 20`,
	RunE: runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background daemon",
	Long: `Start the Breathe background daemon.

Examples:
  breathe daemon start               # Start in background
  breathe daemon start --foreground  # Run in foreground (for debugging)`,
	RunE: runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	RunE:  runDaemonLogs,
}

var daemonInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install daemon as a system service",
	Long: `Install the Breathe daemon as a service that starts on login.

On macOS, this creates a launchd agent in ~/Library/LaunchAgents.
On Linux, this creates a systemd user service in ~/.config/systemd/user.`,
	RunE: runDaemonInstall,
}

var daemonUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall daemon system service",
	RunE:  runDaemonUninstall,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonStartFlagForeground, "foreground", false,
		"Run in foreground (don't daemonize)")
	daemonLogsCmd.Flags().IntVarP(&daemonLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")
	daemonInstallCmd.Flags().BoolVar(&daemonInstallFlagForce, "force", false,
		"Force reinstall if already installed")

	daemonCmd.AddCommand(
		daemonStartCmd,
		daemonStopCmd,
		daemonStatusCmd,
		daemonLogsCmd,
		daemonInstallCmd,
		daemonUninstallCmd,
	)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	if !daemonStartFlagForeground {
		// Background mode runs without the store lock; the child
		// process opens the database itself.
		d := daemon.NewDaemon(nil)
		d.SetDebug(flagDebug)

		if d.IsRunning() {
			return fmt.Errorf("daemon is already running (PID: %d)", d.GetStatus().PID)
		}

		pid, err := d.StartBackground()
		if err != nil {
			return err
		}
		fmt.Printf("Daemon started (PID: %d)\n", pid)
		return nil
	}

	// Foreground mode: ctx holds the open database
	d := daemon.NewDaemon(ctx.DB)
	d.SetDebug(ctx.Debug)

	if d.IsRunning() {
		return fmt.Errorf("daemon is already running (PID: %d)", d.GetStatus().PID)
	}

	dispatcher := notify.NewDispatcher(ctx.WebhookRepo, config.Global.HTTP)
	if !dispatcher.HasEnabledWebhooks() && !ctx.IsJSON() {
		ctx.Formatter.Println("Warning: no webhooks configured. Add one with: breathe webhook add")
		ctx.Formatter.Println("")
	}

	if !ctx.IsJSON() {
		ctx.Formatter.Println("Starting breathe daemon (foreground)...")
	}
	return d.Start(context.Background())
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil)

	if !d.IsRunning() {
		fmt.Println("Daemon is not running")
		return nil
	}

	pid := d.GetStatus().PID
	if err := d.Stop(); err != nil {
		return err
	}

	fmt.Printf("Daemon stopped (was PID: %d)\n", pid)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	status := daemon.NewDaemon(nil).GetStatus()

	if flagFormat == "json" {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("Breathe Daemon")
	fmt.Println("")
	if !status.Running {
		fmt.Printf("  Status:  stopped\n")
		fmt.Println("")
		fmt.Println("Start with: breathe daemon start")
		return nil
	}

	fmt.Printf("  Status:  running\n")
	fmt.Printf("  PID:     %d\n", status.PID)
	fmt.Printf("  Uptime:  %s\n", status.Uptime)
	return nil
}

func runDaemonLogs(cmd *cobra.Command, args []string) error {
	logPath := daemon.GetLogPath()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No log file found.")
		fmt.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := tailFile(logPath, daemonLogsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// tailFile returns the last n lines of a file, keeping a sliding
// window so large logs are not held in memory.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func runDaemonInstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(ctx.Debug)

	if mgr.IsInstalled() {
		if !daemonInstallFlagForce {
			if ctx.IsJSON() {
				return ctx.Formatter.JSON(map[string]interface{}{"status": "already_installed"})
			}
			ctx.Formatter.Println("Service is already installed.")
			ctx.Formatter.Println("Use --force to reinstall.")
			return nil
		}
		if err := mgr.Uninstall(); err != nil {
			return fmt.Errorf("remove existing service: %w", err)
		}
	}

	if err := mgr.Install(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "installed"})
	}

	ctx.Formatter.Println("✓ Service installed")
	ctx.Formatter.Println("")
	ctx.Formatter.Println("The daemon will start automatically when you log in.")
	ctx.Formatter.Println("To start it now: breathe daemon start")
	return nil
}

func runDaemonUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(ctx.Debug)

	if !mgr.IsInstalled() {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{"status": "not_installed"})
		}
		ctx.Formatter.Println("Service is not installed.")
		return nil
	}

	// Stop the daemon before dropping its service definition
	d := daemon.NewDaemon(ctx.DB)
	if d.IsRunning() {
		if err := d.Stop(); err != nil {
			ctx.Debugf("failed to stop daemon: %v", err)
		}
	}

	if err := mgr.Uninstall(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "uninstalled"})
	}

	ctx.Formatter.Println("✓ Service uninstalled")
	return nil
}
