package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/config"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all tasks and history (wipes the database)",
	Long: `Permanently deletes the focus database, removing all tasks and interval history.
Settings in the config file are kept. This cannot be undone. Use --force to
skip the confirmation prompt.`,
	Annotations: map[string]string{skipServices: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if path == "" {
			store, err := config.Open(configPath)
			if err != nil {
				return err
			}
			cfg, err := store.Config()
			if err != nil {
				return err
			}
			path = config.GetDBPath(cfg)
		}

		out := cmd.OutOrStdout()
		if !resetForce {
			fmt.Fprintf(out, "This will permanently delete: %s\n", path)
			fmt.Fprint(out, "Are you sure? Type 'yes' to confirm: ")
			input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(input)) != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, "Nothing to reset: database does not exist.")
				return nil
			}
			return fmt.Errorf("failed to delete database: %w", err)
		}

		fmt.Fprintln(out, "Database deleted. Fresh start.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}
