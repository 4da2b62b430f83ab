// Command quill manages the blog database: schema migration, demo data and
// record administration.
package main

import (
	"context"
	"fmt"
	"os"

	"quill/internal/admin"
	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/search"
	"quill/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const version = "0.1.0"

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	svc      *service.Services
	site     *admin.Site
	shutdown func(context.Context) error
}

func (a *app) Close(ctx context.Context) {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			observability.Logger.Warn("tracing shutdown failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		observability.Logger.Warn("redis close failed", "error", err)
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openApp is replaced in tests.
var openApp = func(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLogger(cfg.Env, cfg.LogLevel, os.Stderr)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "quill",
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	cache.InitRedis(cfg.RedisURL)

	svc := service.New(repository.New(db), search.NewMeiliIndexer(cfg.MeiliSearchHost, cfg.MeiliMasterKey),
		service.Options{PostSlugAttempts: cfg.PostSlugAttempts})
	return &app{
		cfg:      cfg,
		db:       db,
		svc:      svc,
		site:     admin.DefaultSite(db, svc),
		shutdown: shutdown,
	}, nil
}

// current is set by the root command before any subcommand runs.
var current *app

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "Manage the quill blog database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			current = a
			cmd.SetContext(observability.WithCorrelationID(cmd.Context(), observability.GenerateCorrelationID()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if current != nil {
				current.Close(cmd.Context())
				current = nil
			}
		},
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newAdminCmd())
	return root
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if current != nil {
			current.Close(context.Background())
		}
		os.Exit(1)
	}
}
