package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mvp-joe/codeslice/internal/config"
	"github.com/mvp-joe/codeslice/internal/slice"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	root       string
	configFile string
	verbose    bool
}

// newRootCmd builds the command tree. Each call returns independent flag state.
func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "codeslice",
		Short: "Bundle a TypeScript/JavaScript file with only the code it imports",
		Long: `codeslice follows the imports of a TypeScript or JavaScript file to a bounded
depth, resolving tsconfig path aliases, and extracts only the top-level
declarations that are actually imported. The result is a compact text bundle
that fits in a prompt or a code review.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", "project root (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default is <root>/.codeslice/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newSliceCmd(g),
		newTreeCmd(g),
		newGraphCmd(g),
		newResolveCmd(g),
		newMCPCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logger returns the diagnostics logger for a command. Warnings always go to
// stderr; --verbose adds timestamps.
func (g *globalOptions) logger(cmd *cobra.Command) *log.Logger {
	flags := 0
	if g.verbose {
		flags = log.LstdFlags
	}
	return log.New(cmd.ErrOrStderr(), "", flags)
}

// infof prints progress notes only in verbose mode.
func (g *globalOptions) infof(w io.Writer, format string, args ...any) {
	if g.verbose {
		fmt.Fprintf(w, format+"\n", args...)
	}
}

// loadProject loads configuration and opens the project for a command.
func (g *globalOptions) loadProject(cmd *cobra.Command) (*slice.Project, error) {
	root := g.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	var loader config.Loader
	if g.configFile != "" {
		loader = config.NewFileLoader(root, g.configFile)
	} else {
		loader = config.NewLoader(root)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	project, err := slice.OpenProject(root, cfg, g.logger(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	g.infof(cmd.ErrOrStderr(), "Project root: %s (%d aliases)", project.Root, len(project.Resolver.Entries()))
	return project, nil
}
