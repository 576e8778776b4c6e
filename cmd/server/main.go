package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"spaceapp/internal/createplanet"
	"spaceapp/internal/middleware"
	"spaceapp/internal/planet"
	"spaceapp/internal/resource"
	resourceHandlers "spaceapp/internal/resource/handlers"
	"spaceapp/internal/server"
	serverHandlers "spaceapp/internal/server/handlers"
	"spaceapp/internal/shared/config"
	"spaceapp/internal/shared/database"
	"spaceapp/internal/shared/logger"
	"spaceapp/internal/shared/redis"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spaceapp",
		Short: "Planet records REST API",
		Long: `spaceapp serves planet records and custom planet generation
parameters over a REST API backed by PostgreSQL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			logger.Init(config.GlobalConfig)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.GlobalConfig)
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.GlobalConfig)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(config.GlobalConfig, func(m *database.Migrator) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back the given number of migrations, or all of them",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 0
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				return withMigrator(config.GlobalConfig, func(m *database.Migrator) error {
					return m.Down(steps)
				})
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to the given schema version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("version must be a non-negative integer, got %q", args[0])
				}
				return withMigrator(config.GlobalConfig, func(m *database.Migrator) error {
					return m.To(uint(version))
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(config.GlobalConfig, func(m *database.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
					return nil
				})
			},
		},
	)

	return migrateCmd
}

func withMigrator(cfg *config.Config, fn func(*database.Migrator) error) error {
	m, err := database.NewMigrator(cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := slog.With("component", "main")

	if cfg.Database.MigrateOnStart {
		if err := withMigrator(cfg, func(m *database.Migrator) error { return m.Up() }); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			return err
		}
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer cache.Close()

	routes := []server.Route{
		{Name: "planets", Endpoint: newEndpoint(db, cache, cfg, planet.Schema)},
		{Name: "Create_planet", Endpoint: newEndpoint(db, cache, cfg, createplanet.Schema)},
	}

	var cachePinger serverHandlers.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	health := serverHandlers.NewHealthHandler(db, cachePinger)

	mux := server.NewRoutes(cfg.API.Prefix, routes, health).Setup()

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit)
	cors := middleware.NewCORS(cfg.Frontend)

	var handler http.Handler = mux
	handler = rateLimiter.Middleware(handler)
	handler = cors.Middleware(handler)
	handler = middleware.RequestLogger(slog.Default())(handler)

	return server.Run(ctx, cfg.Server, handler)
}

// newEndpoint assembles repository, optional cache, service and handler for
// one entity.
func newEndpoint[T any](db *database.DB, cache *redis.Client, cfg *config.Config, schema *resource.Schema[T]) server.Endpoint {
	logger := slog.With("entity", schema.Entity)

	var store resource.Store[T] = resource.NewRepository(db, schema, logger)
	if cache != nil {
		store = resource.NewCachedStore(store, cache.Client, schema, cfg.Redis.CacheTTL, logger)
	}

	return resourceHandlers.NewResourceHandler(resource.NewService(store, schema, logger))
}
