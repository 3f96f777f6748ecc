package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/daily-report-service/internal/api/http"
	"github.com/spec-kit/daily-report-service/internal/api/http/handlers"
	"github.com/spec-kit/daily-report-service/internal/auth"
	"github.com/spec-kit/daily-report-service/internal/config"
	"github.com/spec-kit/daily-report-service/internal/events"
	"github.com/spec-kit/daily-report-service/internal/limiter"
	"github.com/spec-kit/daily-report-service/internal/observability"
	"github.com/spec-kit/daily-report-service/internal/persistence"
	"github.com/spec-kit/daily-report-service/internal/repository"
	"github.com/spec-kit/daily-report-service/internal/service"
	"github.com/spec-kit/daily-report-service/internal/validation"
	"github.com/spec-kit/daily-report-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required to serve accounts")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:          cfg.Auth.JWTSecret,
		AccessLifetime:  cfg.Auth.AccessTokenLifetime,
		RefreshLifetime: cfg.Auth.RefreshTokenLifetime,
		Issuer:          cfg.Auth.Issuer,
	})
	if err != nil {
		logger.Fatal("failed to init token service", zap.Error(err))
	}

	validator, err := validation.New()
	if err != nil {
		logger.Fatal("failed to compile request schemas", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	audit := worker.NewAuditWorker(service.NewAuditService(logger, metrics), logger, 0)
	audit.Subscribe(dispatcher)
	audit.Start(ctx)
	defer audit.Stop()

	salesRepo := repository.NewSalesRepository(pool)
	historyRepo := repository.NewPasswordHistoryRepository(pool)
	loginLimiter := limiter.NewLoginLimiter(redis.Client, limiter.LoginConfig{
		MaxAttempts: cfg.Auth.LoginMaxAttempts,
		Window:      cfg.Auth.LoginWindow(),
	})

	authService := service.NewAuthService(service.AuthDependencies{
		SalesRepo:            salesRepo,
		PasswordHistoryRepo:  historyRepo,
		Tokens:               tokens,
		Limiter:              loginLimiter,
		Dispatcher:           dispatcher,
		Logger:               logger,
		PasswordHistoryDepth: cfg.Auth.PasswordHistoryDepth,
	})
	salesService := service.NewSalesService(salesRepo, dispatcher, logger)
	sessions := auth.NewSessionResolver(tokens, dispatcher, logger)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(authService, sessions, validator, cfg.Auth.CookieSecure),
		Sales:    handlers.NewSalesHandler(salesService, validator),
		Pages:    handlers.NewPageHandler(),
		Sessions: sessions,
		Metrics:  metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
