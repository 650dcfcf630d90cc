package cmd

import (
	"github.com/spf13/cobra"
)

// newMCPCmd creates the 'mcp' subcommand, which serves the search tools over
// stdio for MCP clients.
func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve search tools over stdio for MCP clients",
		Long: `Exposes search_patents, search_trademarks, check_status and
crawl_multiple as MCP tools on standard input and output. Logs go to
stderr so the protocol stream stays clean.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return appInstance.RunMCP(cmd.Context())
		},
	}
}
