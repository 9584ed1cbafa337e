package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes tasks, the due-date calendar, the focus timer and its
history over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol.
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server on stdio (Ctrl+C to stop)")

		ctx := setupSignalHandler()
		server := mcp.NewServer(app.state)
		defer func() { _ = server.Stop() }()

		app.logger.Info("mcp server starting")
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
