package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mvp-joe/codeslice/internal/config"
	"github.com/mvp-joe/codeslice/internal/source"
)

// ErrOutsideRoot indicates a requested file outside the served project.
var ErrOutsideRoot = errors.New("file is outside project root")

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// withinRoot resolves file against root and rejects paths escaping it.
func withinRoot(root, file string) (string, error) {
	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, file)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, file)
	}
	return abs, nil
}

// isUserError reports errors the caller can fix by changing arguments.
func isUserError(err error) bool {
	return errors.Is(err, source.ErrNotFound) ||
		errors.Is(err, ErrOutsideRoot) ||
		errors.Is(err, config.ErrInvalidOrder) ||
		errors.Is(err, config.ErrInvalidDepth)
}
