package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/pkg/adapters/mcp"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/widgets"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the layout engine as an MCP Server.
This allows AI agents to edit layout documents as tools: adding widgets,
moving them, updating configs, undoing and exporting.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		logger := buildLogger(cfg)
		slog.SetDefault(logger)

		store, locker, err := openStore(cfg, nil)
		if err != nil {
			log.Fatalf("Error opening store: %v", err)
		}

		sessionOpts := []session.Option{session.WithLogger(logger)}
		if locker != nil {
			sessionOpts = append(sessionOpts, session.WithLocker(locker), session.WithLockTTL(cfg.Store.Redis.LockTTL))
		}
		sessions := session.NewManager(store, editorFactory(cfg, logger, nil), sessionOpts...)

		var srvOpts []mcp.Option
		if library := openTemplates(cfg, logger); library != nil {
			srvOpts = append(srvOpts, mcp.WithTemplateLibrary(library))
		}
		srv := mcp.NewServer(sessions, widgets.Standard(), srvOpts...)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Lattice MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Lattice MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				// Ignore server closed error if it was caused by context cancellation
				if err != http.ErrServerClosed {
					slog.Error("MCP Server execution failed", "error", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
