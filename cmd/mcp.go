package cmd

import (
	"github.com/spf13/cobra"

	"github.com/drpaneas/gitinsight/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gitinsight MCP server",
	Long:  `Launch an MCP server on stdio so AI agents can run repository and profile analyses as tools.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Logs already go to stderr; stdout carries the protocol.
		a, err := newAnalyzer()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(cmd.Context(), a, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
