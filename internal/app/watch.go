package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/config"
	"github.com/libster-app/libster/internal/output"
	"github.com/libster-app/libster/internal/watcher"
)

var (
	watchInputs   inputFlags
	watchDaemon   bool
	watchInterval string
	watchStop     bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Recompute the recap whenever a swipe export changes",
	Long: `Poll a swipe export and recompute the recap when the file changes. When
notable events are detected (new visits, a new longest streak, unpaired
swipes, totals that disagree), desktop notifications and/or terminal alerts
are emitted.

Examples:
  libster watch swipes.csv                   # run in foreground (ctrl-c to stop)
  libster watch swipes.csv --daemon          # run in background, write PID file
  libster watch swipes.csv --interval 5m     # check every 5 minutes (default: 1m)
  libster watch --stop                       # stop the background daemon`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchInputs.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "1m", "Check interval as duration string (e.g. 30s, 5m)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon()
	}
	if len(args) == 0 {
		return fmt.Errorf("watch needs a swipe export")
	}

	_, j, err := watchInputs.resolve(cmd)
	if err != nil {
		return err
	}

	interval, err := time.ParseDuration(watchInterval)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", watchInterval, err)
	}
	if interval < 5*time.Second {
		return fmt.Errorf("interval must be at least 5s, got %s", interval)
	}

	compute := func(path string) (*analyzer.Stats, error) {
		records, err := watchInputs.readSwipes(path, j)
		if err != nil {
			return nil, err
		}
		return analyzer.Process(records, j.engine, j.terms)
	}

	if watchDaemon {
		return runDaemon(args[0], interval, compute)
	}
	return runForeground(args[0], interval, compute)
}

// shutdownContext is cancelled on SIGINT/SIGTERM.
func shutdownContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// runForeground runs the watcher in the foreground with live terminal output.
func runForeground(path string, interval time.Duration, compute watcher.ComputeFunc) error {
	ctx, cancel := shutdownContext()
	defer cancel()

	if !watchQuiet {
		fmt.Printf("libster watching %s... (checking every %s)\n", path, interval)
	}

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		if !watchQuiet {
			printAlert(a)
		}
	}

	w := watcher.New(path, interval, compute, alertFn)

	initial, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}

	if !watchQuiet {
		fmt.Printf("[%s] %s %s visits, %s, longest streak %s\n",
			time.Now().Format("15:04:05"),
			checkMark(),
			output.Number(initial.Sessions),
			output.Duration(initial.TotalMinutes),
			plural(initial.VisitStreak, "day"))
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon sets up PID and log files, then runs the watcher. The actual
// backgrounding should be done by the caller (nohup, &, etc.) since Go
// cannot reliably fork.
func runDaemon(path string, interval time.Duration, compute watcher.ComputeFunc) error {
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		_ = os.Remove(pidFilePath())
	}

	pid := os.Getpid()
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	ctx, cancel := shutdownContext()
	defer cancel()

	writeLog(logFile, "libster daemon started (PID %d, watching %s every %s)", pid, path, interval)

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		writeLog(logFile, "[%s] %s: %s", a.Level, a.Title, a.Message)
	}

	w := watcher.New(path, interval, compute, alertFn)

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		writeLog(logFile, "daemon stopped")
		return nil
	}
	return err
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(data))
}

// writeLog writes a timestamped line to the log file.
func writeLog(f *os.File, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(f, "[%s] %s\n", timestamp, msg)
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Printf("[%s] %s %s\n", timestamp, alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Printf("         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case "critical":
		return output.StyleError.Render("●")
	case "warning":
		return output.StyleWarning.Render("▲")
	case "info":
		return checkMark()
	default:
		return " "
	}
}

func checkMark() string {
	return output.StyleSuccess.Render("✓")
}
