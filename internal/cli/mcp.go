package cli

import (
	"fmt"

	"github.com/mvp-joe/codeslice/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server exposing codeslice tools",
		Long: `Start the Model Context Protocol (MCP) server so coding assistants can request
slices of this project.

The MCP server:
- Provides the codeslice_slice and codeslice_tree tools
- Drops cached file contents when sources change
- Communicates via stdio (standard MCP transport)

Example:
  codeslice mcp --root ./web`,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := g.loadProject(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "codeslice MCP Server\nProject: %s\n\n", project.Root)
			return mcp.NewServer(project, Version, g.logger(cmd)).Serve(cmd.Context())
		},
	}
}
