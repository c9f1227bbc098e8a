package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/creditapproval/internal/adapter/http"
	"github.com/iho/creditapproval/internal/adapter/http/handler"
	"github.com/iho/creditapproval/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/creditapproval/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditapproval/internal/adapter/repository/redis"
	"github.com/iho/creditapproval/internal/adapter/spreadsheet"
	"github.com/iho/creditapproval/internal/domain"
	"github.com/iho/creditapproval/internal/infrastructure/config"
	"github.com/iho/creditapproval/internal/infrastructure/logger"
	"github.com/iho/creditapproval/internal/infrastructure/metrics"
	"github.com/iho/creditapproval/internal/infrastructure/postgres"
	"github.com/iho/creditapproval/internal/infrastructure/redis"
	"github.com/iho/creditapproval/internal/infrastructure/worker"
	"github.com/iho/creditapproval/internal/usecase"
)

const rateLimiterIdle = 10 * time.Minute

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.SetGlobal(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.Database.URL,
		MaxConns:       cfg.Database.MaxConns,
		MinConns:       cfg.Database.MinConns,
		ConnectTimeout: cfg.Database.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return err
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient, cfg.Redis.Keyspace)
	jobQueue := redisRepo.NewJobQueue(redisClient, cfg.Redis.Keyspace, cfg.Ingest.Queue)
	jobStore := redisRepo.NewJobStore(redisClient, cfg.Redis.Keyspace, cfg.Ingest.JobTTL)

	// Initialize use cases
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	loanUC := usecase.NewLoanUseCase(txManager, customerRepo, loanRepo, retrier, appMetrics)
	ingestUC := usecase.NewIngestUseCase(
		spreadsheet.NewReader(cfg.Ingest.DataDir),
		customerRepo,
		loanRepo,
		jobQueue,
		jobStore,
		redisRepo.NewJobIDGenerator(),
		appMetrics,
		appLogger,
	)

	// Create router
	rateLimiter := newRateLimiter(cfg.RateLimit, appMetrics)
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler: handler.NewCustomerHandler(customerUC),
		LoanHandler:     handler.NewLoanHandler(loanUC),
		IngestHandler:   handler.NewIngestHandler(ingestUC),
		HealthHandler: handler.NewHealthHandler(
			handler.PingFunc(pool.Ping),
			handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		),
		Logger:           appLogger,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          appMetrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	ingestWorker := worker.NewIngestWorker(worker.Config{
		Queue:       jobQueue,
		Runner:      ingestUC,
		Logger:      appLogger,
		PollTimeout: cfg.Ingest.PollTimeout,
	})
	g.Go(func() error {
		return ignoreCanceled(ingestWorker.Start(gctx))
	})

	if cfg.Ingest.Schedule != "" {
		scheduler, err := worker.NewScheduler(cfg.Ingest.Schedule, domain.IngestKindAll, ingestUC, appLogger)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return ignoreCanceled(scheduler.Start(gctx))
		})
	}

	if cfg.Ingest.OnStartup {
		if job, err := ingestUC.Dispatch(ctx, domain.IngestKindAll); err != nil {
			appLogger.Error().Err(err).Msg("failed to queue startup ingestion")
		} else {
			appLogger.Info().Str("job_id", job.ID).Msg("startup ingestion queued")
		}
	}

	if rateLimiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(rateLimiterIdle)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					rateLimiter.Cleanup(rateLimiterIdle)
				}
			}
		})
	}

	return g.Wait()
}

// newRateLimiter returns nil when rate limiting is disabled.
func newRateLimiter(cfg config.RateLimitConfig, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RPS <= 0 {
		return nil
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	rl := middleware.NewRateLimiter(cfg.RPS, burst)
	if m != nil {
		rl.OnLimited(m.RateLimited)
	}
	return rl
}

func listenAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
