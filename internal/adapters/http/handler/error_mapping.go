package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/users-api-clean-arch/internal/core/user"
)

// respondError はコアのエラー種別を HTTP ステータスへ変換します。
// 分類できないエラーはストア障害として扱い、詳細はクライアントへ返しません。
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrInvalidEmail), errors.Is(err, user.ErrInvalidName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "a user with this email already exists",
		})
	default:
		c.Locals("error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
