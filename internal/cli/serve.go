package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathscout/pathscout/internal/config"
	"github.com/pathscout/pathscout/internal/server"
	"github.com/pathscout/pathscout/pkg/cache"
	"github.com/pathscout/pathscout/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for hosted path discovery.

Datasets are uploaded as node-link JSON and queried by ID. Backends are
selected in the config file (or PATHSCOUT_* environment variables):
route caching in memory, on disk, or in Redis; dataset storage in memory
or MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	return cmd
}

// runServe assembles the configured backends and runs the server until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	routeCache, err := c.buildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer routeCache.Close()

	datasets, err := c.buildStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer datasets.Close(context.Background())

	handlers := server.NewHandlers(datasets, routeCache, cfg.Search, c.Logger)
	srv := server.New(cfg, server.NewRouter(handlers, c.Logger), c.Logger)
	return srv.Run(ctx)
}

// buildCache constructs the configured route-cache backend.
func (c *CLI) buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		c.Logger.Info("connecting to redis", "addr", cfg.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
}

// buildStore constructs the configured dataset-store backend.
func (c *CLI) buildStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreMongo:
		c.Logger.Info("connecting to mongodb", "database", cfg.MongoDatabase)
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	}
	return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
}
