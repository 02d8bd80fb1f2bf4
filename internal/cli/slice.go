package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mvp-joe/codeslice/internal/slice"
	"github.com/mvp-joe/codeslice/internal/watcher"
	"github.com/spf13/cobra"
)

type sliceOptions struct {
	depth  int
	order  string
	out    string
	all    bool
	noRoot bool
	watch  bool
	quiet  bool
}

func newSliceCmd(g *globalOptions) *cobra.Command {
	opts := &sliceOptions{}

	cmd := &cobra.Command{
		Use:   "slice <file>",
		Short: "Print a file together with the declarations it imports",
		Long: `Follow the imports of <file> and print it together with the top-level
declarations it actually imports from each reached file.

Examples:
  codeslice slice src/app/page.tsx
  codeslice slice src/app/page.tsx --depth 1 --out slice.txt
  codeslice slice src/app/page.tsx --order dependencies --all
  codeslice slice src/app/page.tsx --watch --out slice.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlice(cmd, g, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 0, "import levels to follow (default from config)")
	cmd.Flags().StringVar(&opts.order, "order", "", "output order: tree or dependencies (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the slice to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include every top-level declaration of reached files")
	cmd.Flags().BoolVar(&opts.noRoot, "no-root", false, "leave the root file out of the slice")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-slice whenever a source file changes")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress and summary output")
	return cmd
}

func runSlice(cmd *cobra.Command, g *globalOptions, opts *sliceOptions, file string) error {
	if cmd.Flags().Changed("depth") && opts.depth < 1 {
		return fmt.Errorf("--depth must be at least 1, got %d", opts.depth)
	}

	project, err := g.loadProject(cmd)
	if err != nil {
		return err
	}

	progress := newExtractionProgress(cmd.ErrOrStderr(), opts.quiet)
	sliceOpts := slice.Options{
		Depth:    opts.depth,
		Order:    opts.order,
		All:      opts.all,
		Progress: progress.Update,
	}
	if opts.noRoot {
		includeRoot := false
		sliceOpts.IncludeRoot = &includeRoot
	}

	slicer := project.Slicer()
	once := func(ctx context.Context) error {
		progress.Reset()
		start := time.Now()

		res, err := slicer.Slice(ctx, file, sliceOpts)
		if err != nil {
			return err
		}
		if err := writeSlice(cmd, opts.out, res.Text); err != nil {
			return err
		}

		if !opts.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Sliced %s: %d files, %d declarations, %.1f KB in %v\n",
				res.RootRel, res.Stats.Files, res.Stats.Declarations, res.Stats.SizeKB,
				time.Since(start).Round(time.Millisecond))
		}
		return nil
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := once(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	return watchAndSlice(ctx, cmd, g, project, once)
}

// watchAndSlice re-runs slicing on every batch of source changes until ctx ends.
func watchAndSlice(ctx context.Context, cmd *cobra.Command, g *globalOptions, project *slice.Project, once func(context.Context) error) error {
	w, err := watcher.New(project.Root, project.WatchOptions(g.logger(cmd)))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", project.Root, err)
	}
	defer w.Stop()

	stderr := cmd.ErrOrStderr()
	err = w.Start(ctx, func(files []string) {
		project.Invalidate(files...)
		g.infof(stderr, "Changed: %v", files)
		if err := once(ctx); err != nil {
			fmt.Fprintf(stderr, "Warning: re-slice failed: %v\n", err)
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stderr, "Watching for changes (Ctrl+C to stop)...")
	<-ctx.Done()
	return nil
}

func writeSlice(cmd *cobra.Command, out, text string) error {
	if out == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
