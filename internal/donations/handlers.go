package donations

import (
	"errors"

	"sevatrust-backend/internal/middleware"
	"sevatrust-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles donation handlers with dependencies.
type Handlers struct {
	Service *Service
}

// Create POST /api/v1/donations (OptionalAuth: guests allowed)
func (h *Handlers) Create(c *fiber.Ctx) error {
	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	donation, err := h.Service.Create(input, middleware.UserID(c))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return response.Error(c, verr.Message, 400, nil)
		}
		return fiber.NewError(500, "Internal Server Error")
	}
	return response.SuccessCreated(c, "Donation created", fiber.Map{
		"id":     donation.ID,
		"status": donation.Status,
		"amount": donation.Amount,
	}, nil)
}

// CreateOrder POST /api/v1/donations/:id/order
func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	donationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid donation id", 400, nil)
	}

	order, err := h.Service.CreateOrder(c.Context(), donationID)
	switch err {
	case nil:
		return response.Success(c, "Order created", order, nil)
	case ErrNotFound:
		return response.Error(c, err.Error(), 404, nil)
	case ErrNotPending, ErrNotOnline:
		return response.Error(c, err.Error(), 409, nil)
	case ErrGateway:
		return response.Error(c, err.Error(), fiber.StatusBadGateway, nil)
	default:
		return fiber.NewError(500, "Internal Server Error")
	}
}

// Status GET /api/v1/donations/:id/status — public, idempotent poll target.
func (h *Handlers) Status(c *fiber.Ctx) error {
	donationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid donation id", 400, nil)
	}

	view, err := h.Service.Status(donationID)
	if err != nil {
		if err == ErrNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return fiber.NewError(500, "Internal Server Error")
	}
	return response.Success(c, "Donation status", view, nil)
}

// DownloadReceipt GET /api/v1/donations/:id/receipt
func (h *Handlers) DownloadReceipt(c *fiber.Ctx) error {
	donationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid donation id", 400, nil)
	}

	path, err := h.Service.ReceiptPath(donationID)
	switch err {
	case nil:
		return c.Download(path)
	case ErrNotFound:
		return response.Error(c, err.Error(), 404, nil)
	case ErrReceiptNotReady:
		return response.Error(c, err.Error(), 409, nil)
	default:
		return fiber.NewError(500, "Internal Server Error")
	}
}

// Mine GET /api/v1/donations/my (auth)
func (h *Handlers) Mine(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	list, err := h.Service.ByUser(userID)
	if err != nil {
		return fiber.NewError(500, "Internal Server Error")
	}
	return response.Success(c, "Your donations", list, nil)
}
