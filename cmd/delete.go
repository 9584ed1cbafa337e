package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var deleteForce bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long:  `Delete a task by its ID or ID prefix. Use with caution - this cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]

		task, err := app.tasks.GetTask(ctx, taskID)
		if err != nil {
			return taskError(taskID, err)
		}

		if !jsonOutput && !deleteForce {
			fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete task '%s' (%s)? [y/N]: ", task.Title, domain.ShortID(task.ID))
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			confirm = strings.TrimSpace(confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
				return nil
			}
		}

		if err := app.tasks.DeleteTask(ctx, task.ID); err != nil {
			return taskError(taskID, err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"deleted": true, "task_id": task.ID})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Task '%s' deleted.\n", task.Title)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

// taskError turns lookup failures into messages that name the ID.
func taskError(id string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return fmt.Errorf("task not found: %s", id)
	case errors.Is(err, domain.ErrAmbiguousTaskID):
		return fmt.Errorf("ambiguous task id %s: use more characters", id)
	default:
		return err
	}
}
