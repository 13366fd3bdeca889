package collectors

import (
	"errors"

	"sevatrust-backend/internal/middleware"
	"sevatrust-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Apply handles POST /collectors/apply for the authenticated user.
func (h *Handlers) Apply(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input ApplyInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	u, err := h.Service.Apply(userID, input)
	switch {
	case err == nil:
		return response.Success(c, "Application submitted", fiber.Map{
			"kyc_status": u.KYCStatus,
			"role":       u.Role,
		}, nil)
	case errors.Is(err, ErrInvalidID):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, ErrAlreadyPending), errors.Is(err, ErrAlreadyCollector):
		return response.Error(c, err.Error(), 409, nil)
	case errors.Is(err, ErrUserNotFound):
		return response.Error(c, err.Error(), 404, nil)
	default:
		return err
	}
}

// Approve handles POST /admin/collectors/:id/approve.
func (h *Handlers) Approve(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid user id", 400, nil)
	}

	u, err := h.Service.Approve(userID)
	switch {
	case err == nil:
		return response.Success(c, "Collector approved", fiber.Map{
			"user_id":       u.ID,
			"role":          u.Role,
			"referral_code": u.ReferralCode,
		}, nil)
	case errors.Is(err, ErrUserNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrNotPending):
		return response.Error(c, err.Error(), 409, nil)
	default:
		return err
	}
}

// Reject handles POST /admin/collectors/:id/reject.
func (h *Handlers) Reject(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid user id", 400, nil)
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	u, err := h.Service.Reject(userID, input.Reason)
	switch {
	case err == nil:
		return response.Success(c, "Application rejected", fiber.Map{
			"user_id":    u.ID,
			"kyc_status": u.KYCStatus,
		}, nil)
	case errors.Is(err, ErrUserNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrNotPending):
		return response.Error(c, err.Error(), 409, nil)
	default:
		return err
	}
}

// ToggleDisabled handles POST /admin/collectors/:id/toggle-disabled and
// reports the state the collector is now in.
func (h *Handlers) ToggleDisabled(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid user id", 400, nil)
	}

	disabled, err := h.Service.ToggleDisabled(userID)
	switch {
	case err == nil:
		return response.Success(c, "Collector updated", fiber.Map{
			"user_id":  userID,
			"disabled": disabled,
		}, nil)
	case errors.Is(err, ErrUserNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrNotCollector):
		return response.Error(c, err.Error(), 409, nil)
	default:
		return err
	}
}

// ListApplications handles GET /admin/collectors/applications?status=pending.
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	users, err := h.Service.ListApplications(c.Query("status"))
	if err != nil {
		return err
	}
	return response.Success(c, "Collector applications", users, nil)
}
