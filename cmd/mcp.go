package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vino9org/git-indexer/core"
	"github.com/vino9org/git-indexer/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the git-indexer MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents search the index.
Logs go to stderr so that stdout stays reserved for the protocol.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		st, err := core.OpenStore(rootCtx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		return mcp.StartMCPServer(rootCtx, cfg, st, version)
	},
}
