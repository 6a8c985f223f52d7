package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpadapter "github.com/aretw0/lattice/internal/adapters/http"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/widgets"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the layout HTTP server",
	Long: `Serves the JSON mutation API over HTTP: per-key editor sessions,
template instantiation, SSE diff streams and optional Prometheus metrics.
The store backend, history depth and security middleware come from
lattice.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			cmd.PrintErrf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if cmd.Flags().Changed("metrics") {
			cfg.Server.Metrics, _ = cmd.Flags().GetBool("metrics")
		}

		logger := buildLogger(cfg)

		var reg *prometheus.Registry
		var editorMetrics *observability.Metrics
		if cfg.Server.Metrics {
			reg = prometheus.NewRegistry()
			editorMetrics = observability.NewMetrics(reg)
		}

		store, locker, err := openStore(cfg, reg)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}

		sessionOpts := []session.Option{session.WithLogger(logger)}
		if locker != nil {
			sessionOpts = append(sessionOpts, session.WithLocker(locker), session.WithLockTTL(cfg.Store.Redis.LockTTL))
		}
		sessions := session.NewManager(store, editorFactory(cfg, logger, editorMetrics), sessionOpts...)

		handlerOpts := []httpadapter.Option{httpadapter.WithLogger(logger)}
		if reg != nil {
			handlerOpts = append(handlerOpts, httpadapter.WithMetrics(reg))
		}
		if library := openTemplates(cfg, logger); library != nil {
			handlerOpts = append(handlerOpts, httpadapter.WithTemplateLibrary(library))
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: httpadapter.NewHandler(sessions, widgets.Standard(), handlerOpts...),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting lattice server",
				"addr", srv.Addr,
				"store", cfg.Store.Backend,
				"metrics", cfg.Server.Metrics)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			logger.Error("server error", "error", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "error", err)
				}
			}
			logger.Info("lattice server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics (overrides config)")
}
