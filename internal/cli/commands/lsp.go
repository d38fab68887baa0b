package commands

import (
	"github.com/avenger-vis/avenger/internal/lsp"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. It reports syntax
errors as you type, completes keywords and top-level names, and describes
the syntax node under the cursor on hover.`,
		Example: `  # Start LSP server (usually called by an editor)
  avenger lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), version, cc.Logger)
			return server.Run(cmd.Context())
		},
	}

	return cmd
}
