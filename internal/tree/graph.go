package tree

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// FileGraph is the directed file -> imported file graph of a traversal.
type FileGraph struct {
	graph.Graph[string, string]
	Root string
}

// BuildGraph converts a resolved forest into a file graph rooted at rootPath.
// Edges carry the import specifier as their label.
func BuildGraph(rootPath string, nodes []*Node) (*FileGraph, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	if err := addVertex(g, rootPath); err != nil {
		return nil, err
	}
	if err := addEdges(g, rootPath, nodes); err != nil {
		return nil, err
	}

	return &FileGraph{Graph: g, Root: rootPath}, nil
}

func addEdges(g graph.Graph[string, string], from string, nodes []*Node) error {
	for _, n := range nodes {
		to := n.Path()
		if err := addVertex(g, to); err != nil {
			return err
		}
		err := g.AddEdge(from, to, graph.EdgeAttribute("label", n.Import.Source))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
		}
		if err := addEdges(g, to, n.Nested); err != nil {
			return err
		}
	}
	return nil
}

func addVertex(g graph.Graph[string, string], path string) error {
	err := g.AddVertex(path, graph.VertexAttribute("label", filepath.Base(path)))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add file %s: %w", path, err)
	}
	return nil
}

// DependencyOrder returns every file with dependencies before the files that
// import them. The root file comes last. Ties are broken by path.
func (fg *FileGraph) DependencyOrder() ([]string, error) {
	order, err := graph.StableTopologicalSort(fg.Graph, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sort import graph: %w", err)
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// WriteDOT renders the graph in Graphviz DOT format.
func (fg *FileGraph) WriteDOT(w io.Writer) error {
	return draw.DOT(fg.Graph, w)
}
