package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/dairycoop/dairyledger/internal/adapter/http"
	"github.com/dairycoop/dairyledger/internal/adapter/http/handler"
	"github.com/dairycoop/dairyledger/internal/adapter/http/middleware"
	postgresRepo "github.com/dairycoop/dairyledger/internal/adapter/repository/postgres"
	redisRepo "github.com/dairycoop/dairyledger/internal/adapter/repository/redis"
	"github.com/dairycoop/dairyledger/internal/infrastructure/config"
	"github.com/dairycoop/dairyledger/internal/infrastructure/eventpublisher"
	"github.com/dairycoop/dairyledger/internal/infrastructure/logger"
	"github.com/dairycoop/dairyledger/internal/infrastructure/metrics"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres"
	"github.com/dairycoop/dairyledger/internal/infrastructure/redis"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

const (
	limiterSweepInterval = time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server exited")
	}
	appLogger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	batchRepo := postgresRepo.NewBankTransferRepository(pool)
	producers := postgresRepo.NewProducerDirectory(pool)
	payments := postgresRepo.NewPaymentAggregateProvider(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if cfg.OutboxInterval <= 0 {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}

	retrier := postgresRepo.NewRetrier(
		postgresRepo.WithMaxRetries(int(cfg.RetryMaxAttempts)),
		postgresRepo.WithRetryLogger(logger),
		postgresRepo.WithRetryMetrics(m),
	)

	// Use cases
	numbering := usecase.NewNumberingService(postgresRepo.NewSequenceRepository())
	posting := usecase.NewPostingEngine(ledgerRepo, postingRepo, idGen)

	ledgerUC := usecase.NewLedgerUseCase(txManager, ledgerRepo, postingRepo, voucherRepo, outboxRepo, idGen).
		WithMetrics(m)
	voucherUC := usecase.NewVoucherUseCase(txManager, voucherRepo, posting, numbering, outboxRepo, auditRepo, idGen).
		WithRetrier(retrier).
		WithMetrics(m)
	transferUC := usecase.NewBankTransferUseCase(
		txManager, batchRepo, voucherUC, ledgerUC, numbering,
		producers, payments, outboxRepo, auditRepo, idGen, cfg.CompanyCode,
	).
		WithRetrier(retrier).
		WithMetrics(m).
		WithWorkers(cfg.BalanceWorkers)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:       handler.NewLedgerHandler(ledgerUC),
		VoucherHandler:      handler.NewVoucherHandler(voucherUC),
		BankTransferHandler: handler.NewBankTransferHandler(transferUC),
		HealthHandler: handler.NewHealthHandler(pool, handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})),
		Logger:           logger,
		Metrics:          m,
		MetricsGatherer:  prometheus.DefaultGatherer,
		RateLimiter:      rateLimiter,
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient, m),
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	server := newHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sweepLimiters(gctx, rateLimiter, limiterSweepInterval, limiterMaxIdle, logger)
		return nil
	})

	if cfg.OutboxInterval > 0 {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(logger),
			Logger:     logger,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		g.Go(func() error {
			if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// sweepLimiters drops idle per-IP limiters until ctx is done.
func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, every, maxIdle time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(maxIdle); n > 0 {
				logger.Debug().Int("removed", n).Msg("swept idle rate limiters")
			}
		}
	}
}
