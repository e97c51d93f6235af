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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/qqtong-pm/mall/internal/config"
	"github.com/qqtong-pm/mall/internal/event"
	handler "github.com/qqtong-pm/mall/internal/handler/http"
	"github.com/qqtong-pm/mall/internal/repository"
	"github.com/qqtong-pm/mall/internal/repository/postgres"
	"github.com/qqtong-pm/mall/internal/repository/redis"
	"github.com/qqtong-pm/mall/internal/service"
	"github.com/qqtong-pm/mall/migrations"
	"github.com/qqtong-pm/mall/pkg/database"
	"github.com/qqtong-pm/mall/pkg/health"
	pkgkafka "github.com/qqtong-pm/mall/pkg/kafka"
	"github.com/qqtong-pm/mall/pkg/middleware"
	"github.com/qqtong-pm/mall/pkg/tracing"
)

// App wires together all dependencies and runs the brand service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	limiter        *middleware.RateLimiter
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Tracing is a no-op unless enabled, but the propagator is always set.
	shutdown, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdown

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, ".", logger); err != nil {
		a.close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.SetSlowQueryLogging(cfg.SlowQuery, logger)

	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, config.ServiceName); err != nil {
		a.close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Brand repository, optionally behind the Redis cache.
	var repo repository.BrandRepository = postgres.NewBrandRepository(pool)
	if cfg.CacheEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		repo = redis.NewCachedBrandRepository(repo, client, cfg.CacheTTL, logger, prometheus.DefaultRegisterer)
		logger.Info("brand cache enabled", slog.Duration("ttl", cfg.CacheTTL))
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	eventProducer := event.NewProducer(a.producer, cfg.KafkaTopicPrefix, logger)
	brandService := service.NewBrandService(repo, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler(5 * time.Second)
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.redis != nil {
		client := a.redis
		healthHandler.Register("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", a.producer.Ping)
	logger.Info("readiness checks registered", slog.Any("checks", healthHandler.Names()))

	a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	// HTTP router.
	router := handler.NewRouter(brandService, handler.RouterConfig{
		ServiceName:     config.ServiceName,
		DefaultPageSize: cfg.DefaultPageSize,
		RequestTimeout:  cfg.RequestTimeout,
		Health:          healthHandler,
		Metrics:         middleware.NewHTTPMetrics(prometheus.DefaultRegisterer, config.ServiceName),
		MetricsHandler:  promhttp.Handler(),
		RateLimiter:     a.limiter,
		CORS:            corsCfg,
		PprofCIDRs:      cfg.PprofAllowedCIDRs,
		Tracing:         cfg.OTelEnabled,
	}, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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
		a.close()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.close()

	a.logger.Info("application shutdown complete")
	return nil
}

// close releases every dependency that has been opened so far.
func (a *App) close() {
	if a.limiter != nil {
		a.limiter.Close()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
