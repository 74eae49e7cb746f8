package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/users-api-clean-arch/internal/core/health"
)

// HealthHandler は死活確認エンドポイントの HTTP 実装です。
type HealthHandler struct {
	reporter health.Reporter
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(reporter health.Reporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// Check はストアの状態に関わらず常に 200 を返します。
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	report, err := h.reporter.Check(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":    report.Status,
		"timestamp": report.Timestamp,
	})
}
