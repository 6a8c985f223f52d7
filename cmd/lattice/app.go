package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/adapters/file"
	loamlib "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/persistence/middleware"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/widgets"
)

// loadConfig reads the project configuration for the current --dir.
// Relative paths inside the file are project-relative, not CWD-relative.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("dir")
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = filepath.Join(dir, config.DefaultPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Store.Dir) {
		cfg.Store.Dir = filepath.Join(dir, cfg.Store.Dir)
	}
	if !filepath.IsAbs(cfg.Templates.Dir) {
		cfg.Templates.Dir = filepath.Join(dir, cfg.Templates.Dir)
	}
	if cfg.Exporters != "" && !filepath.IsAbs(cfg.Exporters) {
		cfg.Exporters = filepath.Join(dir, cfg.Exporters)
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) *slog.Logger {
	level, _ := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.Format == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// openStore builds the configured persistence backend wrapped in the
// redaction, encryption and (when reg is non-nil) metrics middleware.
// The returned locker is non-nil only for redis with locking enabled.
func openStore(cfg *config.Config, reg *prometheus.Registry) (ports.LayoutStore, ports.DistributedLocker, error) {
	var store ports.LayoutStore
	var locker ports.DistributedLocker

	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendFile:
		store = file.New(cfg.Store.Dir)
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		storeOpts := []redis.Option{redis.WithPrefix(cfg.Store.Redis.Prefix + ":layout:")}
		if cfg.Store.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Store.Redis.TTL))
		}
		store = redis.NewFromClient(client, storeOpts...)
		if cfg.Store.Redis.Lock {
			locker = redis.NewLocker(client, cfg.Store.Redis.Prefix+":")
		}
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	// Outermost first: redact before encrypting, measure the raw backend op.
	var mws []middleware.Middleware
	if len(cfg.Security.Redact) > 0 {
		mws = append(mws, middleware.NewRedactionMiddleware(cfg.Security.Redact))
	}
	active, fallbacks, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}
	if reg != nil {
		mws = append(mws, middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(reg)))
	}
	if len(mws) > 0 {
		store = middleware.Chain(mws...)(store)
	}
	return store, locker, nil
}

// openTemplates opens the loam template library when the configured
// directory exists. A missing directory just means no template support.
func openTemplates(cfg *config.Config, logger *slog.Logger) ports.TemplateLibrary {
	info, err := os.Stat(cfg.Templates.Dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	lib, err := loamlib.Open(cfg.Templates.Dir)
	if err != nil {
		logger.Warn("failed to open template library", "dir", cfg.Templates.Dir, "error", err)
		return nil
	}
	return lib
}

// editorFactory builds per-session editors for the server commands.
func editorFactory(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) session.EditorFactory {
	catalog := widgets.Standard()
	return func(initial *domain.Layout) (ports.LayoutEditor, error) {
		opts := []lattice.Option{
			lattice.WithLayout(initial),
			lattice.WithCatalog(catalog),
			lattice.WithHistoryCapacity(cfg.History.Capacity),
			lattice.WithLogger(logger),
		}
		if metrics != nil {
			opts = append(opts, lattice.WithHooks(metrics.Hooks()))
		}
		return lattice.New(opts...), nil
	}
}

// documentPath names the document a file-oriented command should act on:
// the positional argument when given, otherwise the conventional file in
// the project directory.
func documentPath(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, _ := cmd.Flags().GetString("dir")
	if path := cli.ResolveDocument(dir); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no document found in %s (expected layout.json, page.json or index.json)", dir)
}

// readDocument reads a raw serialized document without structural
// validation, so inspection commands still work on broken files.
func readDocument(cmd *cobra.Command, args []string) (*domain.SerializedLayout, string, error) {
	path, err := documentPath(cmd, args)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading document: %w", err)
	}
	var doc domain.SerializedLayout
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("error parsing document %s: %w", path, err)
	}
	return &doc, path, nil
}
