package referrals

import (
	"strconv"

	"sevatrust-backend/internal/middleware"
	"sevatrust-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles referral handlers with dependencies.
type Handlers struct {
	Service *Service
}

type validateBody struct {
	Code string `json:"code"`
}

// validateResult is the public validation shape: every failure is the same
// generic body so nothing about the code's existence leaks.
type validateResult struct {
	Valid     bool           `json:"valid"`
	Error     string         `json:"error,omitempty"`
	Collector *CollectorInfo `json:"collector,omitempty"`
}

// Validate POST /api/v1/referrals/validate
func (h *Handlers) Validate(c *fiber.Ctx) error {
	var body validateBody
	_ = c.BodyParser(&body)

	info, err := h.Service.ValidateCode(body.Code)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(validateResult{
			Valid: false,
			Error: ErrInvalidCode.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(validateResult{Valid: true, Collector: info})
}

// Leaderboard GET /api/v1/referrals/leaderboard?limit=10
func (h *Handlers) Leaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit > 100 {
		limit = 100
	}
	rows, err := h.Service.TopCollectors(limit)
	if err != nil {
		return fiber.NewError(500, "Internal Server Error")
	}
	return response.Success(c, "Top collectors", rows, nil)
}

// Dashboard GET /api/v1/referrals/dashboard (collector auth)
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	dash, err := h.Service.GetDashboard(userID)
	if err != nil {
		if err == ErrUserNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return fiber.NewError(500, "Internal Server Error")
	}
	return response.Success(c, "Collector dashboard", dash, nil)
}
