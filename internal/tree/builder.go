package tree

import (
	"context"
	"log"
	"path/filepath"

	"github.com/mvp-joe/codeslice/internal/imports"
)

// Node is one resolved import plus the imports of the file it resolved to.
type Node struct {
	Import *imports.Info `json:"import"`
	Nested []*Node       `json:"nested_imports,omitempty"`
}

// Path returns the resolved file path of the node.
func (n *Node) Path() string {
	return n.Import.ResolvedPath
}

// Reader reads source files.
type Reader interface {
	ReadFile(path string) (string, error)
}

// Locator turns a specifier into an existing file path.
type Locator interface {
	Locate(specifier, importerPath string) (string, bool)
}

// PathSet records resolved paths already expanded during one traversal.
// A single set is shared by every branch of the recursion.
type PathSet map[string]struct{}

// NewPathSet creates a set seeded with the given paths.
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add marks a path as processed.
func (s PathSet) Add(path string) {
	s[filepath.Clean(path)] = struct{}{}
}

// Has reports whether a path was already processed.
func (s PathSet) Has(path string) bool {
	_, ok := s[filepath.Clean(path)]
	return ok
}

// Builder resolves import lists into trees.
type Builder struct {
	locator Locator
	reader  Reader
	parser  imports.Parser
	logger  *log.Logger
}

// NewBuilder creates a tree builder.
func NewBuilder(locator Locator, reader Reader, parser imports.Parser, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		locator: locator,
		reader:  reader,
		parser:  parser,
		logger:  logger,
	}
}

// Result is a complete traversal from one root file.
type Result struct {
	RootPath    string
	RootSource  string
	RootImports []*imports.Info
	Nodes       []*Node
	Processed   PathSet

	// Repeats holds, by cleaned path, the imports that were dropped because
	// their file had already been processed.
	Repeats map[string][]*imports.Info
}

// Build reads rootPath, parses its imports and resolves them to maxDepth.
// Only reading or parsing the root file itself is an error.
func (b *Builder) Build(ctx context.Context, rootPath string, maxDepth int) (*Result, error) {
	text, err := b.reader.ReadFile(rootPath)
	if err != nil {
		return nil, err
	}

	infos, err := b.parser.Parse(ctx, rootPath, text)
	if err != nil {
		return nil, err
	}

	if maxDepth < 1 {
		b.logger.Printf("Warning: depth %d is below 1, using 1", maxDepth)
		maxDepth = 1
	}

	processed := NewPathSet(rootPath)
	repeats := make(map[string][]*imports.Info)
	nodes := b.resolve(ctx, infos, rootPath, maxDepth, processed, repeats)

	return &Result{
		RootPath:    rootPath,
		RootSource:  text,
		RootImports: infos,
		Nodes:       nodes,
		Processed:   processed,
		Repeats:     repeats,
	}, nil
}

// ResolveImportPaths resolves each import of currentFilePath and, while
// maxDepth allows, the imports of every resolved file. processed is shared
// across the whole recursion: a path is marked before its subtree is
// expanded, so duplicates and cycles are dropped. Imports that cannot be
// located, read or parsed are logged and omitted.
func (b *Builder) ResolveImportPaths(
	ctx context.Context,
	infos []*imports.Info,
	currentFilePath string,
	maxDepth int,
	processed PathSet,
) []*Node {
	return b.resolve(ctx, infos, currentFilePath, maxDepth, processed, nil)
}

// resolve implements ResolveImportPaths, recording dropped duplicates in
// repeats when it is non-nil.
func (b *Builder) resolve(
	ctx context.Context,
	infos []*imports.Info,
	currentFilePath string,
	maxDepth int,
	processed PathSet,
	repeats map[string][]*imports.Info,
) []*Node {
	if maxDepth < 1 {
		return nil
	}

	var nodes []*Node
	for _, info := range infos {
		resolved := info.ResolvedPath
		if resolved == "" {
			var ok bool
			resolved, ok = b.locator.Locate(info.Source, currentFilePath)
			if !ok {
				b.logger.Printf("Warning: could not resolve import %q from %s", info.Source, currentFilePath)
				continue
			}
		}

		if processed.Has(resolved) {
			if repeats != nil {
				key := filepath.Clean(resolved)
				repeats[key] = append(repeats[key], info)
			}
			continue
		}
		processed.Add(resolved)
		info.ResolvedPath = resolved

		node := &Node{Import: info}
		if maxDepth > 1 {
			nested, err := b.nestedImports(ctx, resolved)
			if err != nil {
				b.logger.Printf("Warning: skipping import %q from %s: %v", info.Source, currentFilePath, err)
				continue
			}
			node.Nested = b.resolve(ctx, nested, resolved, maxDepth-1, processed, repeats)
		}

		nodes = append(nodes, node)
	}

	return nodes
}

// nestedImports reads and parses a resolved file.
func (b *Builder) nestedImports(ctx context.Context, path string) ([]*imports.Info, error) {
	text, err := b.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.parser.Parse(ctx, path, text)
}

// Walk visits nodes depth-first in pre-order. depth is 1 for direct imports.
// Returning false from fn skips the node's children.
func Walk(nodes []*Node, fn func(node *Node, depth int) bool) {
	walk(nodes, 1, fn)
}

func walk(nodes []*Node, depth int, fn func(node *Node, depth int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Nested, depth+1, fn)
		}
	}
}

// MaxDepth returns the number of hops on the longest root-to-leaf path.
func MaxDepth(nodes []*Node) int {
	deepest := 0
	Walk(nodes, func(_ *Node, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}
