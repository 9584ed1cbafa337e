// Package cmd provides the CLI commands for the focus application.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	configPath string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Focus - tasks, due dates and a Pomodoro timer in your terminal",
	Long: `Focus keeps a local task list ordered by priority and due date,
shows a month calendar of what is due, and runs a Pomodoro timer with
work, short-break and long-break cycles.

Run "focus" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipServices] == "true" {
			return nil
		}
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTimer(false)
	},
}

// skipServices is the annotation for commands that must not open storage.
const skipServices = "skip-services"

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if cerr := cleanupServices(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.focus/focus.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.focus/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	rootCmd.SetVersionTemplate("Focus CLI\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(resetCmd)
}

// launchTimer opens the timer TUI on the shared controller.
func launchTimer(inline bool) error {
	ctx := setupSignalHandler()
	defer app.timer.Close()

	if inline {
		return tui.RunInline(ctx, app.timer, &app.config.Theme)
	}

	return tui.RunTimer(ctx, app.timer, tui.Options{
		Theme:       &app.config.Theme,
		MondayFirst: app.config.Calendar.MondayFirst(),
		Tasks: func() ([]*domain.Task, error) {
			return app.tasks.ListTasks(context.Background(), pendingOnly())
		},
		Calendar: func(month domain.YearMonth) (map[domain.DayKey][]*domain.Task, error) {
			return app.tasks.MonthCalendar(context.Background(), month)
		},
	})
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
