package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vonderheiden/bannerforge/internal/server"
	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/cache"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
	"github.com/vonderheiden/bannerforge/pkg/render"
	"github.com/vonderheiden/bannerforge/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	config   string // optional TOML config file
	addr     string // listen address
	redisURL string // redis artifact cache URL; empty uses the file cache
	cacheDir string // file cache directory override
	noCache  bool   // disable the artifact cache
	mongoURI string // mongo catalog URI; empty uses the file or memory catalog
	mongoDB  string // mongo database name
	dataDir  string // file catalog directory; empty uses an in-memory catalog
	font     string // custom font family to prefer
}

// serveConfig mirrors serveOpts for the TOML config file. Explicit flags
// win over config values.
type serveConfig struct {
	Addr     string `toml:"addr"`
	Redis    string `toml:"redis"`
	CacheDir string `toml:"cache_dir"`
	NoCache  bool   `toml:"no_cache"`
	Mongo    string `toml:"mongo"`
	MongoDB  string `toml:"mongo_db"`
	DataDir  string `toml:"data_dir"`
	Font     string `toml:"font"`
}

// applyServeConfig loads the TOML config file and fills every option whose
// flag was not set explicitly on the command line.
func applyServeConfig(cmd *cobra.Command, opts *serveOpts) error {
	if opts.config == "" {
		return nil
	}
	var cfg serveConfig
	if _, err := toml.DecodeFile(opts.config, &cfg); err != nil {
		return fmt.Errorf("load config %s: %w", opts.config, err)
	}

	set := func(flag string, apply func()) {
		if !cmd.Flags().Changed(flag) {
			apply()
		}
	}
	set("addr", func() {
		if cfg.Addr != "" {
			opts.addr = cfg.Addr
		}
	})
	set("redis", func() { opts.redisURL = cfg.Redis })
	set("cache-dir", func() { opts.cacheDir = cfg.CacheDir })
	set("no-cache", func() { opts.noCache = cfg.NoCache })
	set("mongo", func() { opts.mongoURI = cfg.Mongo })
	set("mongo-db", func() {
		if cfg.MongoDB != "" {
			opts.mongoDB = cfg.MongoDB
		}
	})
	set("data-dir", func() { opts.dataDir = cfg.DataDir })
	set("font", func() { opts.font = cfg.Font })
	return nil
}

// newServeCmd creates the serve command that runs the HTTP composition and
// catalog service.
//
// Backend selection:
//   - Artifact cache: --redis, else file cache, or --no-cache
//   - Catalog: --mongo, else --data-dir file catalog, else in-memory
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: "bannerforge",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP composition and catalog service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyServeConfig(cmd, &opts); err != nil {
				return err
			}
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file (flags override)")
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for the artifact cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory (default: user cache dir)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "mongodb URI for the banner catalog")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "mongodb database name")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "file catalog directory (default: in-memory catalog)")
	cmd.Flags().StringVar(&opts.font, "font", "", "custom font family to prefer")

	return cmd
}

// runServe wires the composition stack, picks cache and catalog backends
// from the flags, and serves until interrupted.
func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var fontOpts []fonts.Option
	if opts.font != "" {
		fontOpts = append(fontOpts, fonts.WithCustomFamily(opts.font))
	}
	lib, err := fonts.NewLibrary(logger, fontOpts...)
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	loader := assets.NewLoader(nil, logger)
	renderer := render.NewRenderer(lib, loader, logger)

	artifactCache, err := openServeCache(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer artifactCache.Close()

	catalog, err := openServeCatalog(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer catalog.Close(context.Background())

	srv := server.New(server.Deps{
		Fonts:    lib,
		Assets:   loader,
		Renderer: renderer,
		Cache:    artifactCache,
		Catalog:  catalog,
	}, logger)

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openServeCache picks the artifact cache backend for the server.
func openServeCache(ctx context.Context, opts *serveOpts, logger *log.Logger) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		c, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Debug("Artifact cache backend", "kind", "redis")
		return c, nil
	}
	return openArtifactCache(workspaceOpts{cacheDir: opts.cacheDir})
}

// openServeCatalog picks the catalog backend for the server.
func openServeCatalog(ctx context.Context, opts *serveOpts, logger *log.Logger) (store.Store, error) {
	if opts.mongoURI != "" {
		s, err := store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB, "banners")
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		logger.Debug("Catalog backend", "kind", "mongodb", "database", opts.mongoDB)
		return s, nil
	}
	if opts.dataDir != "" {
		s, err := store.NewFileStore(opts.dataDir)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		logger.Debug("Catalog backend", "kind", "file", "dir", opts.dataDir)
		return s, nil
	}
	logger.Debug("Catalog backend", "kind", "memory")
	return store.NewMemoryStore(), nil
}
