package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httphandler "github.com/ogurasousui/users-api-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/users-api-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/users-api-clean-arch/internal/core/health"
	"github.com/ogurasousui/users-api-clean-arch/internal/core/user"
	"github.com/ogurasousui/users-api-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/users-api-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/users-api-clean-arch/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger()
	slog.SetDefault(logger)

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	userRepo := postgres.NewUserRepository(dbPool)
	txManager := pg.NewTransactionManager(dbPool)
	userSvc := user.NewService(userRepo, nil, txManager)
	healthSvc := health.NewService(nil)

	srv := server.New(
		cfg.Server,
		logger,
		httphandler.NewHealthHandler(healthSvc),
		httphandler.NewUserHandler(userSvc),
	)

	logger.Info("HTTP server listening", "addr", cfg.Server.ListenAddr)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel()}

	if os.Getenv("ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
