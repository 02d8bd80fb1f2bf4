package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/codeslice/internal/config"
	mcputils "github.com/mvp-joe/codeslice/internal/mcp-utils"
	"github.com/mvp-joe/codeslice/internal/slice"
)

// SliceRequest holds codeslice_slice arguments.
type SliceRequest struct {
	File        string `json:"file"`
	Depth       int    `json:"depth,omitempty"`
	All         bool   `json:"all,omitempty"`
	Order       string `json:"order,omitempty"`
	IncludeRoot *bool  `json:"include_root,omitempty"`
}

// AddSliceTool registers the codeslice_slice tool with an MCP server.
func AddSliceTool(s *server.MCPServer, project *slice.Project) {
	tool := mcp.NewTool(
		"codeslice_slice",
		mcp.WithDescription("Bundle a TypeScript/JavaScript file with only the declarations it imports, following imports to a bounded depth. Aliased imports are resolved through tsconfig paths. Returns the slice as plain text."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("File to slice, relative to the project root (e.g., 'src/app/page.tsx')")),
		mcp.WithNumber("depth",
			mcp.Description("Import levels to follow (default from config, minimum 1)")),
		mcp.WithBoolean("all",
			mcp.Description("Include every top-level declaration of reached files, not only the imported ones")),
		mcp.WithString("order",
			mcp.Description("'tree' (root first, imports in traversal order) or 'dependencies' (dependencies first, root last)")),
		mcp.WithBoolean("include_root",
			mcp.Description("Include the full text of the root file (default: true)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createSliceHandler(project))
}

// createSliceHandler creates the handler function for codeslice_slice.
func createSliceHandler(project *slice.Project) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slicer := project.Slicer()

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req SliceRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if req.File == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}
		if req.Depth < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("%v: depth must be at least 1, got %d", config.ErrInvalidDepth, req.Depth)), nil
		}

		file, err := withinRoot(project.Root, req.File)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := slicer.Slice(ctx, file, slice.Options{
			Depth:       req.Depth,
			Order:       req.Order,
			All:         req.All,
			IncludeRoot: req.IncludeRoot,
		})
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return mcp.NewToolResultText(res.Text), nil
	}
}
