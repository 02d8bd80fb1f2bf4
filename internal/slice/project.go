package slice

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/mvp-joe/codeslice/internal/alias"
	"github.com/mvp-joe/codeslice/internal/config"
	"github.com/mvp-joe/codeslice/internal/imports"
	"github.com/mvp-joe/codeslice/internal/locate"
	"github.com/mvp-joe/codeslice/internal/source"
	"github.com/mvp-joe/codeslice/internal/tree"
	"github.com/mvp-joe/codeslice/internal/tsconfig"
	"github.com/mvp-joe/codeslice/internal/watcher"
	"github.com/spf13/afero"
)

// Project wires the resolver, locator and tree builder for one project root.
type Project struct {
	Root     string
	Config   *config.Config
	FS       *source.FS
	Resolver *alias.Resolver
	Locator  *locate.Locator
	Builder  *tree.Builder

	fsys     afero.Fs
	tsconfig string
	logger   *log.Logger
}

// OpenProject builds a project over the host filesystem.
func OpenProject(root string, cfg *config.Config, logger *log.Logger) (*Project, error) {
	return OpenProjectFS(afero.NewOsFs(), root, cfg, logger, imports.NewTreeSitterParser())
}

// OpenProjectFS builds a project over fsys with the given import parser.
// A missing tsconfig leaves the alias table empty; a malformed one is logged
// and ignored.
func OpenProjectFS(fsys afero.Fs, root string, cfg *config.Config, logger *log.Logger, parser imports.Parser) (*Project, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	files, err := source.NewFS(fsys, cfg.Cache.MaxFiles)
	if err != nil {
		return nil, err
	}

	tsconfigPath := filepath.Clean(cfg.TSConfig.Path)
	if !filepath.IsAbs(tsconfigPath) {
		tsconfigPath = filepath.Join(absRoot, tsconfigPath)
	}

	resolver := alias.NewResolver(loadAliases(fsys, tsconfigPath, logger), logger)
	locator := locate.NewLocator(absRoot, resolver, files)

	return &Project{
		Root:     absRoot,
		Config:   cfg,
		FS:       files,
		Resolver: resolver,
		Locator:  locator,
		Builder:  tree.NewBuilder(locator, files, parser, logger),
		fsys:     fsys,
		tsconfig: tsconfigPath,
		logger:   logger,
	}, nil
}

func loadAliases(fsys afero.Fs, tsconfigPath string, logger *log.Logger) []alias.Entry {
	tc, err := tsconfig.Load(fsys, tsconfigPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Printf("Warning: ignoring %s: %v", tsconfigPath, err)
		}
		return nil
	}
	return tc.Aliases()
}

// Abs resolves a file argument against the project root.
func (p *Project) Abs(file string) string {
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(p.Root, file)
}

// Rel returns path relative to the project root with forward slashes, or
// path itself when it lies outside the root.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Slicer returns a slicer bound to this project.
func (p *Project) Slicer() *Slicer {
	return NewSlicer(p, p.logger)
}

// TSConfigPath returns the absolute path the alias table is read from.
func (p *Project) TSConfigPath() string {
	return p.tsconfig
}

// ReloadAliases re-reads tsconfig and replaces the alias table.
func (p *Project) ReloadAliases() {
	p.Resolver.Replace(loadAliases(p.fsys, p.tsconfig, p.logger))
}

// WatchOptions configures a watcher that reports source files and tsconfig.
func (p *Project) WatchOptions(logger *log.Logger) watcher.Options {
	return watcher.Options{
		Extensions: locate.Extensions,
		Names:      []string{filepath.Base(p.tsconfig)},
		Debounce:   time.Duration(p.Config.Watch.DebounceMS) * time.Millisecond,
		Logger:     logger,
	}
}

// Invalidate drops cached contents of changed files and reloads the alias
// table when tsconfig is among them.
func (p *Project) Invalidate(paths ...string) {
	p.FS.Invalidate(paths...)
	for _, path := range paths {
		if filepath.Clean(path) == p.tsconfig {
			p.ReloadAliases()
			return
		}
	}
}
