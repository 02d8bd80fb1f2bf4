package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/codeslice/internal/slice"
	"github.com/mvp-joe/codeslice/internal/watcher"
)

// ServerName is reported to MCP clients.
const ServerName = "codeslice-mcp"

// Server serves slicing tools over stdio for one project.
type Server struct {
	project *slice.Project
	mcp     *server.MCPServer
	logger  *log.Logger
}

// NewServer creates the MCP server and registers its tools.
func NewServer(project *slice.Project, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	AddSliceTool(mcpServer, project)
	AddTreeTool(mcpServer, project)

	return &Server{
		project: project,
		mcp:     mcpServer,
		logger:  logger,
	}
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown. Source
// changes under the project root drop stale cached file contents.
func (s *Server) Serve(ctx context.Context) error {
	w, err := watcher.New(s.project.Root, s.project.WatchOptions(s.logger))
	if err != nil {
		s.logger.Printf("Warning: file watching disabled: %v", err)
	} else {
		defer w.Stop()
		err = w.Start(ctx, func(files []string) {
			s.project.Invalidate(files...)
		})
		if err != nil {
			s.logger.Printf("Warning: file watching disabled: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting MCP server on stdio for %s...", s.project.Root)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		s.logger.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
