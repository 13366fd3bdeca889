package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"sevatrust-backend/internal/emails"
	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/receipts"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// WebhookHandler is the single authority for moving a donation out of
// PENDING. No other code path may set SUCCESS or FAILED.
type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
	ReceiptPrefix string
	Receipts      *receipts.Generator
	Emails        emails.Sender
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Method           string `json:"method"`
	ErrorDescription string `json:"error_description"`
}

// HandleWebhook POST /api/v1/payments/webhook — raw body, signature
// verification over the unparsed bytes, then process. Every recognized
// no-op (duplicate delivery, unknown order, irrelevant event) acknowledges
// with 200 so the gateway does not retry intentional no-ops.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("X-Razorpay-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Payment webhook received empty body")
		return c.Status(400).SendString("Webhook Error: empty body")
	}
	if err := verifySignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Msg("Payment webhook signature verification failed")
		return c.Status(400).SendString("Webhook Error: invalid signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Payment webhook JSON parse failed")
		return c.Status(400).SendString("Webhook Error: malformed body")
	}

	switch event.Event {
	case "payment.captured":
		if err := wh.handleCaptured(c.Context(), event.Payload.Payment.Entity); err != nil {
			// Genuine processing failure: non-200 so the gateway retries.
			log.Error().Err(err).Str("order_id", event.Payload.Payment.Entity.OrderID).Msg("payment.captured processing failed")
			return c.Status(500).SendString("Webhook Error: processing failed")
		}
	case "payment.failed":
		if err := wh.handleFailed(event.Payload.Payment.Entity); err != nil {
			log.Error().Err(err).Str("order_id", event.Payload.Payment.Entity.OrderID).Msg("payment.failed processing failed")
			return c.Status(500).SendString("Webhook Error: processing failed")
		}
	default:
		// Recognized-but-irrelevant event types are acknowledged and ignored.
	}

	return c.Status(200).SendString("ok")
}

// handleCaptured performs the one atomic conditional transition
// PENDING -> SUCCESS and fires best-effort side effects on the transition
// that applied. A duplicate delivery matches zero rows and is a no-op.
func (wh *WebhookHandler) handleCaptured(ctx context.Context, p paymentEntity) error {
	if p.OrderID == "" {
		return nil
	}

	// Fresh number per delivery; discarded when the update matches nothing.
	receiptNumber, err := receipts.NewReceiptNumber(wh.ReceiptPrefix, time.Now())
	if err != nil {
		return err
	}

	res := wh.DB.Model(&models.Donation{}).
		Where("gateway_order_id = ? AND status = ?", p.OrderID, models.DonationPending).
		Updates(map[string]interface{}{
			"status":             models.DonationSuccess,
			"gateway_payment_id": p.ID,
			"tx_reference":       p.ID,
			"receipt_number":     receiptNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already processed by a prior delivery, or order id unknown.
		log.Info().Str("order_id", p.OrderID).Msg("payment.captured no-op (duplicate or unknown order)")
		return nil
	}

	var donation models.Donation
	if err := wh.DB.Where("gateway_order_id = ?", p.OrderID).First(&donation).Error; err != nil {
		log.Error().Err(err).Str("order_id", p.OrderID).Msg("Donation reload after SUCCESS transition failed")
		return nil
	}
	log.Info().Str("donation_id", donation.ID.String()).Str("receipt_number", receiptNumber).Msg("Donation reconciled as SUCCESS")

	// Side effects are best-effort: failures are logged and never roll back
	// the payment-success state.
	wh.generateAndDeliverReceipt(ctx, &donation)
	return nil
}

func (wh *WebhookHandler) generateAndDeliverReceipt(ctx context.Context, donation *models.Donation) {
	if wh.Receipts == nil {
		return
	}
	path, err := wh.Receipts.Generate(donation)
	if err != nil {
		log.Error().Err(err).Str("donation_id", donation.ID.String()).Msg("Receipt PDF generation failed")
		return
	}
	if err := wh.DB.Model(donation).Update("receipt_file", path).Error; err != nil {
		log.Error().Err(err).Str("donation_id", donation.ID.String()).Msg("Receipt file reference persist failed")
	}
	donation.ReceiptFile = path

	if wh.Emails == nil || donation.DonorEmail == "" || !donation.EmailOptIn || !donation.EmailVerified {
		return
	}
	if err := wh.Emails.SendReceipt(ctx, donation.DonorEmail, donation.DonorName, *donation.ReceiptNumber, path); err != nil {
		log.Error().Err(err).Str("donation_id", donation.ID.String()).Msg("Receipt email dispatch failed")
		return
	}
	if err := wh.DB.Model(donation).Update("receipt_email_sent", true).Error; err != nil {
		log.Error().Err(err).Str("donation_id", donation.ID.String()).Msg("Receipt email flag persist failed")
	}
}

// handleFailed marks a still-PENDING donation FAILED with the gateway's
// reason. Terminal donations are left untouched.
func (wh *WebhookHandler) handleFailed(p paymentEntity) error {
	if p.OrderID == "" {
		return nil
	}
	reason := p.ErrorDescription
	if reason == "" {
		reason = "Payment failed"
	}
	res := wh.DB.Model(&models.Donation{}).
		Where("gateway_order_id = ? AND status = ?", p.OrderID, models.DonationPending).
		Updates(map[string]interface{}{
			"status":             models.DonationFailed,
			"gateway_payment_id": p.ID,
			"failure_reason":     reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Info().Str("order_id", p.OrderID).Msg("payment.failed no-op (terminal or unknown order)")
	}
	return nil
}

// verifySignature recomputes the keyed hash over the raw body and compares
// in constant time.
func verifySignature(payload []byte, sigHeader, secret string) error {
	if sigHeader == "" || secret == "" {
		return errors.New("missing signature or secret")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sigHeader), []byte(expected)) {
		return errors.New("signature mismatch")
	}
	return nil
}
