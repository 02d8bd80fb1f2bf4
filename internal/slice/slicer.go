package slice

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/codeslice/internal/config"
	"github.com/mvp-joe/codeslice/internal/extract"
	"github.com/mvp-joe/codeslice/internal/imports"
	"github.com/mvp-joe/codeslice/internal/tree"
)

// Options controls one slice run. Zero values fall back to the project config.
type Options struct {
	Depth       int
	Order       string
	All         bool
	IncludeRoot *bool

	// Progress is called after each reached file has been extracted.
	Progress func(done, total int, path string)
}

// File is one reached file and the declarations taken from it.
type File struct {
	Path         string            `json:"path"`
	RelPath      string            `json:"rel_path"`
	Specifier    string            `json:"specifier"`
	Depth        int               `json:"depth"`
	Declarations []extract.Content `json:"declarations"`
}

// Stats summarises a slice.
type Stats struct {
	Files        int     `json:"files"`
	Declarations int     `json:"declarations"`
	Unterminated int     `json:"unterminated"`
	Bytes        int     `json:"bytes"`
	SizeKB       float64 `json:"size_kb"`
	OverLimit    bool    `json:"over_limit"`
}

// Result is a rendered slice.
type Result struct {
	Root       string       `json:"root"`
	RootRel    string       `json:"root_rel"`
	RootSource string       `json:"-"`
	Files      []File       `json:"files"`
	Nodes      []*tree.Node `json:"-"`
	Text       string       `json:"-"`
	Stats      Stats        `json:"stats"`
}

// Slicer composes traversal and extraction into the text bundle.
type Slicer struct {
	project *Project
	logger  *log.Logger
}

// NewSlicer creates a slicer for project.
func NewSlicer(project *Project, logger *log.Logger) *Slicer {
	if logger == nil {
		logger = log.Default()
	}
	return &Slicer{project: project, logger: logger}
}

// Slice traverses the imports of file and extracts the referenced
// declarations of every reached file.
func (s *Slicer) Slice(ctx context.Context, file string, opts Options) (*Result, error) {
	cfg := s.project.Config
	depth := opts.Depth
	if depth == 0 {
		depth = cfg.Slice.Depth
	}
	order := strings.ToLower(opts.Order)
	if order == "" {
		order = strings.ToLower(cfg.Slice.Order)
	}
	if order != config.OrderTree && order != config.OrderDependencies {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidOrder, order)
	}
	includeRoot := cfg.Slice.IncludeRoot
	if opts.IncludeRoot != nil {
		includeRoot = *opts.IncludeRoot
	}

	rootPath := s.project.Abs(file)
	built, err := s.project.Builder.Build(ctx, rootPath, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to slice %s: %w", s.project.Rel(rootPath), err)
	}

	files, err := s.extract(built, opts)
	if err != nil {
		return nil, err
	}
	if order == config.OrderDependencies {
		if files, err = dependencyOrder(built, files); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Root:       rootPath,
		RootRel:    s.project.Rel(rootPath),
		RootSource: built.RootSource,
		Files:      files,
		Nodes:      built.Nodes,
	}
	res.Text = render(res, includeRoot, order)
	res.Stats = stats(res, cfg.Slice.MaxSizeKB)

	if res.Stats.OverLimit {
		s.logger.Printf("Warning: slice of %s is %.1f KB, above the %.0f KB limit",
			res.RootRel, res.Stats.SizeKB, cfg.Slice.MaxSizeKB)
	}
	return res, nil
}

// extract runs the extractor over every reached file in tree order.
func (s *Slicer) extract(built *tree.Result, opts Options) ([]File, error) {
	type reached struct {
		node  *tree.Node
		depth int
	}
	var all []reached
	tree.Walk(built.Nodes, func(n *tree.Node, depth int) bool {
		all = append(all, reached{node: n, depth: depth})
		return true
	})

	extractor := extract.NewExtractor(s.logger)
	files := make([]File, 0, len(all))
	for i, r := range all {
		path := r.node.Path()
		text, err := s.project.FS.ReadFile(path)
		if err != nil {
			// Leaves are located but never read by Build.
			s.logger.Printf("Warning: skipping %s: %v", s.project.Rel(path), err)
			continue
		}

		var decls []extract.Content
		if opts.All {
			decls = extractor.ExtractAll(text)
		} else {
			decls = extractor.ExtractImportedEntities(text, bindings(r.node.Import, built.Repeats[filepath.Clean(path)]))
		}

		files = append(files, File{
			Path:         path,
			RelPath:      s.project.Rel(path),
			Specifier:    r.node.Import.Source,
			Depth:        r.depth,
			Declarations: decls,
		})

		if opts.Progress != nil {
			opts.Progress(i+1, len(all), path)
		}
	}
	return files, nil
}

// bindings merges the declarations of imports that reached the same file
// after it had been processed.
func bindings(info *imports.Info, repeats []*imports.Info) *imports.Info {
	if len(repeats) == 0 {
		return info
	}
	merged := &imports.Info{
		Source:       info.Source,
		ResolvedPath: info.ResolvedPath,
		Declarations: append([]imports.Declaration(nil), info.Declarations...),
	}
	for _, r := range repeats {
		merged.Declarations = append(merged.Declarations, r.Declarations...)
	}
	return merged
}

// dependencyOrder reorders files leaves first using the import graph.
func dependencyOrder(built *tree.Result, files []File) ([]File, error) {
	g, err := tree.BuildGraph(built.RootPath, built.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build import graph: %w", err)
	}
	order, err := g.DependencyOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to order files: %w", err)
	}

	byPath := make(map[string]File, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}
	out := make([]File, 0, len(files))
	for _, p := range order {
		if f, ok := byPath[p]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func stats(res *Result, maxSizeKB float64) Stats {
	st := Stats{Files: len(res.Files), Bytes: len(res.Text)}
	for _, f := range res.Files {
		st.Declarations += len(f.Declarations)
		for _, d := range f.Declarations {
			if d.Unterminated {
				st.Unterminated++
			}
		}
	}
	st.SizeKB = float64(st.Bytes) / 1024
	st.OverLimit = maxSizeKB > 0 && st.SizeKB > maxSizeKB
	return st
}
