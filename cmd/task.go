package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

// taskUpdate runs fn against the task named by the first argument and
// prints the result with the given verb.
func taskUpdate(verb string, fn func(ctx context.Context, id string, args []string) (*domain.Task, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		task, err := fn(context.Background(), args[0], args[1:])
		if err != nil {
			return taskError(args[0], err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, taskLine(task, time.Now().In(app.tasks.Location())))
		return nil
	}
}

var doneCmd = &cobra.Command{
	Use:     "done [task-id]",
	Aliases: []string{"complete"},
	Short:   "Mark a task as completed",
	Args:    cobra.ExactArgs(1),
	RunE: taskUpdate("Completed", func(ctx context.Context, id string, _ []string) (*domain.Task, error) {
		return app.tasks.CompleteTask(ctx, id)
	}),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen [task-id]",
	Short: "Move a completed task back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: taskUpdate("Reopened", func(ctx context.Context, id string, _ []string) (*domain.Task, error) {
		return app.tasks.ReopenTask(ctx, id)
	}),
}

var priorityCmd = &cobra.Command{
	Use:   "priority [task-id] [high|medium|low]",
	Short: "Change a task's priority",
	Long:  `Change a task's priority. Unknown levels are treated as medium.`,
	Args:  cobra.ExactArgs(2),
	RunE: taskUpdate("Updated", func(ctx context.Context, id string, args []string) (*domain.Task, error) {
		return app.tasks.SetPriority(ctx, id, domain.ParsePriority(args[0]))
	}),
}

var dueCmd = &cobra.Command{
	Use:   "due [task-id] [YYYY-MM-DD|none]",
	Short: "Set or clear a task's due date",
	Args:  cobra.ExactArgs(2),
	RunE: taskUpdate("Rescheduled", func(ctx context.Context, id string, args []string) (*domain.Task, error) {
		due := args[0]
		if strings.EqualFold(due, "none") {
			due = ""
		}
		return app.tasks.SetDueDate(ctx, id, due)
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy-search tasks by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tasks.SearchTasks(context.Background(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to search tasks: %w", err)
		}
		return printTasks(cmd.OutOrStdout(), tasks)
	},
}
