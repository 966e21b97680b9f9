package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/FlorianTh2/homepageBackend/internal/api"
	"github.com/FlorianTh2/homepageBackend/internal/auth"
	"github.com/FlorianTh2/homepageBackend/internal/config"
	"github.com/FlorianTh2/homepageBackend/internal/project"
	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite"
	"github.com/FlorianTh2/homepageBackend/internal/tag"
	"github.com/FlorianTh2/homepageBackend/pkg/cache"
	"github.com/FlorianTh2/homepageBackend/pkg/logging"
)

// janitorInterval is how often expired entries are dropped from the memory cache.
const janitorInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server until SIGINT or SIGTERM.

Examples:
  # Serve with an in-memory response cache
  HOMEPAGE_JWT_SECRET=secret homepage-api serve

  # Cache responses in Redis
  HOMEPAGE_JWT_SECRET=secret HOMEPAGE_CACHE_BACKEND=redis homepage-api serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return applyFlags(cfg), nil
}

func applyFlags(cfg config.Config) config.Config {
	if addr := strings.TrimSpace(addrFlag); addr != "" {
		cfg.Addr = addr
	}
	if path := strings.TrimSpace(dbPathFlag); path != "" {
		cfg.DBPath = path
	}
	return cfg
}

// app is the wired server with the resources it owns.
type app struct {
	server *api.Server
	db     *sql.DB
	memory *cache.MemoryStore
	redis  *redis.Client
	logger zerolog.Logger
}

// newApp opens the database and the cache backend and wires the server.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{logger: logging.NewLogger("main")}

	db, err := sqlite.Open(cfg.DBPath, sqlite.WithBusyTimeout(cfg.StorageTimeout))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db

	responseCache, err := a.openCache(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := tag.NewRegistry(db, cfg.StorageTimeout)
	store := project.NewStore(db, registry, cfg.StorageTimeout)

	server, err := api.NewServer(api.Deps{
		Projects: project.NewService(store),
		Tags:     registry,
		Cache:    responseCache,
		DB:       db,
		Verifier: verifier,
	}, api.Config{
		BaseURL:  cfg.BaseURL,
		CacheTTL: cfg.CacheTTL(),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.server = server

	a.logger.Info().
		Str("db_path", cfg.DBPath).
		Str("cache_backend", responseCache.Backend()).
		Dur("cache_ttl", responseCache.TTL()).
		Msg("Homepage API initialized")
	return a, nil
}

func (a *app) openCache(ctx context.Context, cfg config.Config) (*cache.ResponseCache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		a.redis = client
		a.logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
		return cache.New(cache.NewRedisStore(client), cfg.CacheTTL()), nil
	default:
		a.memory = cache.NewMemoryStore()
		return cache.New(a.memory, cfg.CacheTTL()), nil
	}
}

// Close releases the database and the Redis connection.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}

// serve runs the server until ctx is done, then shuts it down within the
// configured timeout.
func serve(ctx context.Context, cfg config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start(cfg.Addr)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.memory != nil {
		g.Go(func() error {
			a.memory.RunJanitor(gctx, janitorInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	a.logger.Info().Msg("Homepage API stopped")
	return nil
}
