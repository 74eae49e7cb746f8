package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ogurasousui/users-api-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/users-api-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/users-api-clean-arch/internal/platform/config"
)

const shutdownTimeout = 30 * time.Second

// Server は HTTP サーバーのライフサイクルを管理します。
type Server struct {
	app        *fiber.App
	listenAddr string
}

// New は設定に従って Fiber アプリケーションを構築し、ルートを登録します。
func New(cfg config.ServerConfig, logger *slog.Logger, healthHandler *handler.HealthHandler, userHandler *handler.UserHandler) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(
		recover.New(),
		middleware.RequestLogger(logger),
		cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept",
		}),
	)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	api.Get("/users", userHandler.List)
	api.Post("/users", userHandler.Create)

	return &Server{
		app:        app,
		listenAddr: cfg.ListenAddr,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると安全に停止します。
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.app.ShutdownWithContext(shutdownCtx)
	}()

	if err := s.app.Listen(s.listenAddr); err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	return nil
}

// errorHandler はハンドラー外で発生したエラーを JSON で返します。
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
