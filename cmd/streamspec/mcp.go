package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec"
	"github.com/tomsilver/streamspec/internal/validator"
	"github.com/tomsilver/streamspec/pkg/adapters/mcp"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [file]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the stream definition to AI agents as MCP tools and resources.

Supported Transports:
- stdio (default): Standard input/output. Ideal for local process integration.
- sse: Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := loadDefinition(cmd, args)
		if err != nil {
			fatalf("Error loading definition: %v", err)
		}

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		strict, _ := cmd.Flags().GetBool("strict")
		primitives, _ := cmd.Flags().GetStringSlice("primitives")
		validation := validator.Options{Strict: strict}
		if len(primitives) > 0 {
			validation.Primitives = make(map[string]bool, len(primitives))
			for _, p := range primitives {
				validation.Primitives[domain.CanonName(p)] = true
			}
		}

		srv := mcp.NewServer(def, validation, streamspec.Version)

		switch transport {
		case "stdio":
			// Keep log output off stdout so it cannot corrupt JSON-RPC.
			log.SetOutput(os.Stderr)
			slog.Info("starting MCP server (stdio)", "definition", def.Name)
			if err := srv.ServeStdio(); err != nil {
				fatalf("MCP server failed: %v", err)
			}
		case "sse":
			slog.Info("starting MCP server (sse)", "port", port, "definition", def.Name)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				fatalf("MCP server failed: %v", err)
			}
			fmt.Fprintln(os.Stderr, "MCP server stopped")
		default:
			fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport to use (stdio or sse)")
	mcpCmd.Flags().Int("port", 8090, "Port for the SSE transport")
}
