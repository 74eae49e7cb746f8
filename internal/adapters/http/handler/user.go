package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/users-api-clean-arch/internal/core/user"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// UserHandler はユーザー API の HTTP 実装です。
type UserHandler struct {
	svc user.UseCase
}

// NewUserHandler は UserHandler を生成します。
func NewUserHandler(svc user.UseCase) *UserHandler {
	return &UserHandler{svc: svc}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type listUsersResponse struct {
	Users      []userResponse     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

// List はユーザーの一覧をページ単位で返します。
// 不正なページ指定はエラーにせずデフォルト値へ丸めます。
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", defaultPage)
	if page < 1 {
		page = defaultPage
	}

	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	result, err := h.svc.ListUsers(c.Context(), user.ListUsersInput{Page: page, Limit: limit})
	if err != nil {
		return respondError(c, err)
	}

	users := make([]userResponse, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, toUserResponse(u))
	}

	return c.JSON(listUsersResponse{
		Users: users,
		Pagination: paginationResponse{
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
			Pages: result.Pages,
		},
	})
}

// Create はユーザーを作成します。入力不備は 400、メールアドレス重複は 409 を返します。
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fieldError(c, "body", "request body must be valid JSON")
	}

	if strings.TrimSpace(req.Name) == "" {
		return fieldError(c, "name", "name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return fieldError(c, "email", "email is required")
	}

	created, err := h.svc.CreateUser(c.Context(), user.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(created))
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func fieldError(c *fiber.Ctx, field, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"field": field,
	})
}
