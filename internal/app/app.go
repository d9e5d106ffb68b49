// Package app wires the storefront's dependencies and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/VedantYeola/Wear-Story/internal/assistant"
	"github.com/VedantYeola/Wear-Story/internal/catalog"
	"github.com/VedantYeola/Wear-Story/internal/config"
	"github.com/VedantYeola/Wear-Story/internal/event"
	handler "github.com/VedantYeola/Wear-Story/internal/handler/http"
	"github.com/VedantYeola/Wear-Story/internal/repository"
	"github.com/VedantYeola/Wear-Story/internal/repository/memory"
	"github.com/VedantYeola/Wear-Story/internal/repository/postgres"
	redisrepo "github.com/VedantYeola/Wear-Story/internal/repository/redis"
	"github.com/VedantYeola/Wear-Story/internal/service"
	"github.com/VedantYeola/Wear-Story/pkg/database"
	"github.com/VedantYeola/Wear-Story/pkg/health"
	"github.com/VedantYeola/Wear-Story/pkg/httpclient"
	pkgkafka "github.com/VedantYeola/Wear-Story/pkg/kafka"
	"github.com/VedantYeola/Wear-Story/pkg/middleware"
	"github.com/VedantYeola/Wear-Story/pkg/tracing"
)

const (
	serviceName    = "storefront"
	serviceVersion = "0.1.0"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	store          *catalog.Store
	hub            *handler.CatalogHub
	sessions       *service.SessionManager
	activity       *service.ActivityRecorder
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	if err := a.init(ctx); err != nil {
		a.closeClients()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	// Initialize OpenTelemetry tracing.
	tracingCfg := cfg.Tracing
	tracingCfg.ServiceName = serviceName
	tracingCfg.ServiceVersion = serviceVersion
	tracerShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	healthHandler := health.NewHandler()

	// Catalog source.
	var items repository.ItemRepository
	if cfg.UsesPostgres() {
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		logger.Info("connected to PostgreSQL")
		prometheus.MustRegister(database.NewPoolStatsCollector(pool))

		if cfg.RunMigrations {
			if err := database.Migrate(ctx, cfg.Postgres.URL, postgres.Migrations, postgres.MigrationsDir, logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("database migrations completed")
		}
		if cfg.SlowQueryThreshold > 0 {
			database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
		}

		items = postgres.NewItemRepository(pool)
		healthHandler.Register("postgres", pool.Ping)
	} else {
		items = memory.NewItemRepository(catalog.Fallback())
		logger.Info("serving the bundled catalog from memory")
	}

	feed, err := a.changeFeed(items)
	if err != nil {
		return err
	}

	// Activity sink.
	var sink repository.ActivitySink
	if a.pool != nil && cfg.ActivitySink {
		sink = postgres.NewActivityRepository(a.pool)
	}

	// Item events.
	var events service.ItemEventPublisher
	if cfg.PublishItemEvents {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := a.producer.Ping(ctx); err != nil {
			logger.Warn("kafka producer ping failed, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
		events = event.NewProducer(a.producer, logger)
	}
	if cfg.UsesKafka() {
		brokers := cfg.KafkaBrokers
		healthHandler.RegisterOptional("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, brokers)
		})
	}

	// Session slots.
	var snapshots repository.SnapshotRepository
	if cfg.SnapshotBackend == config.BackendRedis {
		rdb, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr))
		snapshots = redisrepo.NewSnapshotRepository(rdb, cfg.SnapshotTTL)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	} else {
		snapshots = memory.NewSnapshotRepository()
	}

	// Assistant.
	var gen assistant.Generator
	if cfg.GeminiAPIKey != "" {
		httpCfg := httpclient.DefaultConfig()
		httpCfg.Timeout = cfg.GeminiTimeout
		client := httpclient.NewCircuitBreakerClient(httpclient.New(httpCfg), httpclient.DefaultCircuitBreakerConfig("gemini"), logger)
		gen = assistant.NewGemini(assistant.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
		}, client, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, the stylist answers from local rules")
	}
	stylistAI := assistant.New(gen, nil, logger)

	// Build the dependency graph.
	a.store = catalog.NewStore(items, feed, logger)
	a.hub = handler.NewCatalogHub(middleware.OriginAllowed(cfg.CORSOrigins), logger)
	a.store.OnChange(a.hub.Broadcast)
	a.sessions = service.NewSessionManager(snapshots, cfg.Session(), logger)
	a.activity = service.NewActivityRecorder(sink, logger)
	if cfg.AdminPassphraseHash == "" {
		logger.Warn("ADMIN_PASSPHRASE_HASH not set, admin API is locked")
	}

	svcs := handler.Services{
		Catalog:  service.NewCatalogService(a.sessions, a.store, a.activity),
		Cart:     service.NewCartService(a.sessions, a.store, a.activity),
		Wishlist: service.NewWishlistService(a.sessions, a.store, a.activity),
		Checkout: service.NewCheckoutService(a.sessions, a.activity, logger),
		Stylist:  service.NewStylistService(a.sessions, a.store, stylistAI),
		Sessions: a.sessions,
		Admin:    service.NewAdminService(items, events, a.store, a.activity, cfg.AdminPassphraseHash, logger),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSOrigins

	router := handler.NewRouter(svcs, a.hub, healthHandler, logger, handler.RouterConfig{
		CORS:           corsCfg,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		RequestTimeout: cfg.RequestTimeout,
		AssistantRate: middleware.RateLimitConfig{
			Rate:  cfg.AssistantRateLimit,
			Burst: cfg.AssistantRateBurst,
		},
	})

	// WriteTimeout is left unset; websocket connections are long-lived.
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// changeFeed picks the catalog's change notification source.
func (a *App) changeFeed(items repository.ItemRepository) (repository.ChangeFeed, error) {
	switch a.cfg.ChangeFeed {
	case config.FeedPostgres:
		return postgres.NewListenFeed(a.pool, a.logger), nil
	case config.FeedKafka:
		return event.NewFeed(a.cfg.KafkaBrokers, a.cfg.KafkaGroupPrefix, a.logger), nil
	case config.FeedNone:
		// The in-memory repository announces its own writes.
		if mem, ok := items.(*memory.ItemRepository); ok {
			return mem, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unknown change feed %q", a.cfg.ChangeFeed)
}

// Run starts the HTTP server and background workers, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.store.Start(ctx)
	go a.sessions.Run(ctx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: HTTP server, push
// clients, catalog refresh, checkout timers, pending activity writes, then
// the tracer and client connections.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.hub.Close()

	if err := a.store.Close(); err != nil {
		a.logger.Error("catalog store close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.sessions.Close()
	a.activity.Wait()

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	errs = append(errs, a.closeClients()...)

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeClients releases the Kafka producer, Redis client and Postgres pool.
func (a *App) closeClients() []error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return errs
}
