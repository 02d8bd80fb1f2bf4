package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCmd(g *globalOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "resolve <specifier>",
		Short: "Explain how an import specifier resolves to a file",
		Long: `Show the alias that matches an import specifier and every path probed for it,
in order. Relative specifiers are resolved against --from.

Examples:
  codeslice resolve @/components/Button
  codeslice resolve ./utils --from src/app/page.tsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := g.loadProject(cmd)
			if err != nil {
				return err
			}
			specifier := args[0]

			importer := filepath.Join(project.Root, "index.ts")
			if from != "" {
				importer = project.Abs(from)
			}

			out := cmd.OutOrStdout()
			match := project.Resolver.Resolve(specifier)
			if match.Matched {
				fmt.Fprintf(out, "alias: %s -> %s\n", match.MatchedAlias, strings.Join(match.ResolvedPaths, ", "))
			} else {
				fmt.Fprintln(out, "alias: none")
			}

			found, ok := project.Locator.Locate(specifier, importer)
			fmt.Fprintln(out, "candidates:")
			for _, c := range project.Locator.Candidates(specifier, importer) {
				marker := " "
				if ok && c == found {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", marker, project.Rel(c))
			}

			if !ok {
				return fmt.Errorf("could not resolve %q", specifier)
			}
			fmt.Fprintf(out, "resolved: %s\n", project.Rel(found))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "importing file for relative specifiers (default <root>/index.ts)")
	return cmd
}
