package cli

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codeslice/internal/tree"
	"github.com/spf13/cobra"
)

func newTreeCmd(g *globalOptions) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the resolved import tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := g.loadProject(cmd)
			if err != nil {
				return err
			}
			if depth == 0 {
				depth = project.Config.Slice.Depth
			}

			built, err := project.Builder.Build(cmd.Context(), project.Abs(args[0]), depth)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, project.Rel(built.RootPath))
			tree.Walk(built.Nodes, func(n *tree.Node, d int) bool {
				fmt.Fprintf(out, "%s%s (%s)\n", strings.Repeat("  ", d), project.Rel(n.Path()), n.Import.Source)
				return true
			})
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "import levels to follow (default from config)")
	return cmd
}

func newGraphCmd(g *globalOptions) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Print the file import graph in Graphviz DOT format",
		Long: `Print the file import graph in Graphviz DOT format.

Example:
  codeslice graph src/app/page.tsx | dot -Tsvg > imports.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := g.loadProject(cmd)
			if err != nil {
				return err
			}
			if depth == 0 {
				depth = project.Config.Slice.Depth
			}

			built, err := project.Builder.Build(cmd.Context(), project.Abs(args[0]), depth)
			if err != nil {
				return err
			}
			fg, err := tree.BuildGraph(built.RootPath, built.Nodes)
			if err != nil {
				return err
			}
			return fg.WriteDOT(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "import levels to follow (default from config)")
	return cmd
}
