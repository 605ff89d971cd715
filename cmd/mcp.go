package cmd

import (
	"log/slog"

	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/streamly/internal/assistant"
	mcpserver "github.com/ziadkadry99/streamly/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing update lookup and the assistant as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		di, err := setup()
		if err != nil {
			return err
		}
		defer shutdown(di)

		manager, err := do.Invoke[*assistant.Manager](di)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		// Stdout carries the protocol; logging goes to stderr.
		slog.Info("streamly MCP server started on stdio",
			"entries", len(manager.Document().Entries()))

		return mcpserver.NewServer(manager).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
