package donationheads

import (
	"errors"

	"sevatrust-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// List handles GET /donation-heads (public, active heads only).
func (h *Handlers) List(c *fiber.Ctx) error {
	heads, err := h.Service.ListActive()
	if err != nil {
		return err
	}
	return response.Success(c, "Donation heads", heads, nil)
}

// ListAll handles GET /admin/donation-heads.
func (h *Handlers) ListAll(c *fiber.Ctx) error {
	heads, err := h.Service.ListAll()
	if err != nil {
		return err
	}
	return response.Success(c, "Donation heads", heads, nil)
}

type headInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /admin/donation-heads.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var input headInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	head, err := h.Service.Create(input.Name, input.Description)
	switch {
	case err == nil:
		return response.SuccessCreated(c, "Donation head created", head, nil)
	case errors.Is(err, ErrEmptyName):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, ErrDuplicate):
		return response.Error(c, err.Error(), 409, nil)
	default:
		return err
	}
}

// Update handles PATCH /admin/donation-heads/:id.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid donation head id", 400, nil)
	}

	var input headInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	head, err := h.Service.Update(id, input.Name, input.Description)
	switch {
	case err == nil:
		return response.Success(c, "Donation head updated", head, nil)
	case errors.Is(err, ErrNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, ErrDuplicate):
		return response.Error(c, err.Error(), 409, nil)
	default:
		return err
	}
}

// SetActive handles POST /admin/donation-heads/:id/active.
func (h *Handlers) SetActive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid donation head id", 400, nil)
	}

	var input struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	head, err := h.Service.SetActive(id, input.Active)
	switch {
	case err == nil:
		return response.Success(c, "Donation head updated", head, nil)
	case errors.Is(err, ErrNotFound):
		return response.Error(c, err.Error(), 404, nil)
	default:
		return err
	}
}
