package main

import (
	"fmt"

	"github.com/spf13/cobra"

	eunoia "github.com/unowned-ai/eunoia/pkg"
	"github.com/unowned-ai/eunoia/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout that exposes the journal
services as tools. Logs go to stderr so they never corrupt the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := mcp.NewEunoiaMCPServer(a.Services, a.Registry, eunoia.Version)
		a.Log.Info("mcp server starting on stdio")
		if err := srv.Start(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}
