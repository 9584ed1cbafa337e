package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	addPriority    string
	addDue         string
	addDescription string
	addTags        string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to the focus task list.

Priority is high, medium or low (anything else means medium). Due dates
use YYYY-MM-DD.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		req := services.AddTaskRequest{
			Title:       strings.Join(args, " "),
			Description: addDescription,
			Priority:    domain.ParsePriority(addPriority),
			Due:         addDue,
			Tags:        splitTags(addTags),
		}

		task, err := app.tasks.AddTask(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task added: %s (ID: %s)\n", task.Title, domain.ShortID(task.ID))
		if task.DueDate != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "   Due: %s\n", domain.DayKeyOf(*task.DueDate))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority: high, medium or low")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Longer description")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma-separated tags")
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
