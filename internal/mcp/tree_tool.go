package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/codeslice/internal/config"
	mcputils "github.com/mvp-joe/codeslice/internal/mcp-utils"
	"github.com/mvp-joe/codeslice/internal/slice"
	"github.com/mvp-joe/codeslice/internal/tree"
)

// TreeRequest holds codeslice_tree arguments.
type TreeRequest struct {
	File  string `json:"file"`
	Depth int    `json:"depth,omitempty"`
}

// TreeEntry is one reached file in a TreeResponse.
type TreeEntry struct {
	File      string   `json:"file"`
	Specifier string   `json:"specifier"`
	Depth     int      `json:"depth"`
	Bindings  []string `json:"bindings,omitempty"`
	Imports   []string `json:"imports,omitempty"`
}

// TreeResponse lists reached files in traversal order plus a leaves-first order.
type TreeResponse struct {
	Root            string      `json:"root"`
	Files           []TreeEntry `json:"files"`
	DependencyOrder []string    `json:"dependency_order"`
	MaxDepth        int         `json:"max_depth"`
}

// AddTreeTool registers the codeslice_tree tool with an MCP server.
func AddTreeTool(s *server.MCPServer, project *slice.Project) {
	tool := mcp.NewTool(
		"codeslice_tree",
		mcp.WithDescription("Show which project files a TypeScript/JavaScript file reaches through its imports, without extracting any code. Useful to decide the depth for codeslice_slice."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("File to start from, relative to the project root")),
		mcp.WithNumber("depth",
			mcp.Description("Import levels to follow (default from config, minimum 1)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createTreeHandler(project))
}

// createTreeHandler creates the handler function for codeslice_tree.
func createTreeHandler(project *slice.Project) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req TreeRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if req.File == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}
		if req.Depth < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("%v: depth must be at least 1, got %d", config.ErrInvalidDepth, req.Depth)), nil
		}
		depth := req.Depth
		if depth == 0 {
			depth = project.Config.Slice.Depth
		}

		file, err := withinRoot(project.Root, req.File)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		built, err := project.Builder.Build(ctx, file, depth)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		g, err := tree.BuildGraph(built.RootPath, built.Nodes)
		if err != nil {
			return nil, err
		}
		order, err := g.DependencyOrder()
		if err != nil {
			return nil, err
		}

		response := &TreeResponse{
			Root:     project.Rel(built.RootPath),
			MaxDepth: tree.MaxDepth(built.Nodes),
		}
		tree.Walk(built.Nodes, func(n *tree.Node, d int) bool {
			entry := TreeEntry{
				File:      project.Rel(n.Path()),
				Specifier: n.Import.Source,
				Depth:     d,
				Bindings:  n.Import.Names(),
			}
			for _, child := range n.Nested {
				entry.Imports = append(entry.Imports, project.Rel(child.Path()))
			}
			response.Files = append(response.Files, entry)
			return true
		})
		for _, p := range order {
			response.DependencyOrder = append(response.DependencyOrder, project.Rel(p))
		}

		return marshalToolResponse(response)
	}
}
