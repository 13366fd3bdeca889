package otp

import (
	"sevatrust-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles OTP handlers with dependencies.
type Handlers struct {
	Service *Service
}

type sendBody struct {
	Mobile string `json:"mobile"`
}

type verifyBody struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

// Send POST /api/v1/otp/send
func (h *Handlers) Send(c *fiber.Ctx) error {
	var body sendBody
	if err := c.BodyParser(&body); err != nil || body.Mobile == "" {
		return response.Error(c, "mobile is required", 400, nil)
	}

	err := h.Service.Send(c.Context(), body.Mobile, c.IP())
	switch err {
	case nil:
		return response.Success(c, "OTP sent", nil, nil)
	case ErrInvalidMobile:
		return response.Error(c, err.Error(), 400, nil)
	case ErrRateLimited:
		return response.Error(c, err.Error(), fiber.StatusTooManyRequests, nil)
	case ErrDispatch:
		return response.Error(c, err.Error(), fiber.StatusBadGateway, nil)
	default:
		return fiber.NewError(500, "Internal Server Error")
	}
}

// Verify POST /api/v1/otp/verify
func (h *Handlers) Verify(c *fiber.Ctx) error {
	var body verifyBody
	if err := c.BodyParser(&body); err != nil || body.Mobile == "" || body.Code == "" {
		return response.Error(c, "mobile and code are required", 400, nil)
	}

	err := h.Service.Verify(c.Context(), body.Mobile, body.Code)
	switch err {
	case nil:
		return response.Success(c, "OTP verified", nil, nil)
	case ErrInvalidMobile:
		return response.Error(c, err.Error(), 400, nil)
	case ErrExpired:
		return response.Error(c, err.Error(), 400, nil)
	case ErrInvalid:
		return response.Error(c, err.Error(), 400, nil)
	default:
		return fiber.NewError(500, "Internal Server Error")
	}
}
