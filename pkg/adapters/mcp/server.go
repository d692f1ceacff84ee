// Package mcp exposes a loaded stream definition as an MCP server, so
// agent tooling can inspect stream schemas and validate candidate files.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tomsilver/streamspec/internal/compiler"
	"github.com/tomsilver/streamspec/internal/docgen"
	"github.com/tomsilver/streamspec/internal/presentation/graph"
	"github.com/tomsilver/streamspec/internal/validator"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// Server wraps a definition and exposes it over MCP.
type Server struct {
	definition *domain.Definition
	validation validator.Options
	version    string
	mcpServer  *server.MCPServer
}

// NewServer creates an MCP server for the definition.
func NewServer(def *domain.Definition, validation validator.Options, version string) *Server {
	s := &Server{
		definition: def,
		validation: validation,
		version:    version,
		mcpServer:  server.NewMCPServer("streamspec-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// the context is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: list_streams
	s.mcpServer.AddTool(mcp.NewTool("list_streams",
		mcp.WithDescription("List every stream declared in the loaded definition."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.definition.StreamNames())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	// TOOL: describe_stream
	s.mcpServer.AddTool(mcp.NewTool("describe_stream",
		mcp.WithDescription("Describe one stream: inputs, domain condition, outputs, certified condition."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Stream name")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		stream, err := s.definition.Stream(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(docgen.Stream(stream)), nil
	})

	// TOOL: validate_definition
	s.mcpServer.AddTool(mcp.NewTool("validate_definition",
		mcp.WithDescription("Parse and validate a stream-definition file passed as text."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Raw stream file content")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, err := request.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		def, err := compiler.NewParser().Parse([]byte(source))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		report := validator.ValidateDefinition(def, s.validation)
		data, err := json.Marshal(map[string]any{
			"valid":    report.OK(),
			"errors":   report.Errors,
			"warnings": report.Warnings,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) registerResources() {
	// EXPOSE: streamspec://definition
	s.mcpServer.AddResource(mcp.NewResource("streamspec://definition", "Loaded Stream Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.definition.EncodeJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode definition: %w", err)
		}
		return []mcp.ResourceContents{mcp.TextResourceContents{
			URI:      "streamspec://definition",
			MIMEType: "application/json",
			Text:     string(data),
		}}, nil
	})

	// EXPOSE: streamspec://graph
	s.mcpServer.AddResource(mcp.NewResource("streamspec://graph", "Producer Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{mcp.TextResourceContents{
			URI:      "streamspec://graph",
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.definition),
		}}, nil
	})
}
