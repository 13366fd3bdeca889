package donations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sevatrust-backend/internal/models"
	"sevatrust-backend/internal/payments"
	"sevatrust-backend/internal/pkg/validation"
	"sevatrust-backend/internal/receipts"
	"sevatrust-backend/internal/referrals"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minDonorAge = 18

// Service owns the donation lifecycle from creation to the point the
// reconciliation webhook takes over. It never sets SUCCESS or FAILED.
type Service struct {
	DB        *gorm.DB
	Referrals *referrals.Service
	Gateway   payments.OrderCreator
	Receipts  *receipts.Generator

	MinAmount float64
	MaxAmount float64

	validate *validator.Validate
}

func NewService(db *gorm.DB, ref *referrals.Service, gateway payments.OrderCreator, gen *receipts.Generator, minAmount, maxAmount float64) *Service {
	return &Service{
		DB:        db,
		Referrals: ref,
		Gateway:   gateway,
		Receipts:  gen,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
		validate:  validator.New(),
	}
}

// CreateInput is the external donation-creation schema. It deliberately has
// no settable trust flags: otp_verified and collector attribution are
// derived server-side only.
type CreateInput struct {
	DonorName        string              `json:"donor_name" validate:"required,min=2,max=120"`
	Mobile           string              `json:"mobile" validate:"required"`
	Email            string              `json:"email" validate:"omitempty,email"`
	EmailOptIn       bool                `json:"email_opt_in"`
	Address          models.DonorAddress `json:"address"`
	AnonymousDisplay bool                `json:"anonymous_display"`
	DateOfBirth      string              `json:"date_of_birth" validate:"required"` // YYYY-MM-DD
	IDType           string              `json:"id_type" validate:"required"`
	IDNumber         string              `json:"id_number" validate:"required"`
	HeadID           string              `json:"head_id" validate:"required,uuid"`
	Amount           float64             `json:"amount" validate:"required,gt=0"`
	Method           string              `json:"method" validate:"omitempty,oneof=ONLINE CASH UPI CHEQUE"`
	ReferralCode     string              `json:"referral_code"`
	TxReference      string              `json:"tx_reference"`
}

// StatusView is the public, PII-free status projection. The donation id is
// bearer-capability access, so nothing beyond display fields is exposed.
type StatusView struct {
	ID               uuid.UUID `json:"id"`
	Status           string    `json:"status"`
	Amount           float64   `json:"amount"`
	HeadName         string    `json:"head_name"`
	Method           string    `json:"method"`
	CreatedAt        time.Time `json:"createdAt"`
	ReceiptAvailable bool      `json:"receipt_available"`
	FailureReason    string    `json:"failure_reason,omitempty"`
}

// OrderView is returned to the client to open the gateway checkout.
type OrderView struct {
	DonationID uuid.UUID `json:"donation_id"`
	OrderID    string    `json:"order_id"`
	Amount     int64     `json:"amount"` // paise
	Currency   string    `json:"currency"`
}

// Create validates the input completely, resolves an optional referral code
// strictly, and persists a PENDING donation with an immutable donor
// snapshot. userID links an authenticated donor account (uuid.Nil = guest).
func (s *Service) Create(input CreateInput, userID uuid.UUID) (*models.Donation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, invalid(validationMessage(err))
	}

	if !validation.IsValidFullname(strings.TrimSpace(input.DonorName)) {
		return nil, invalid("Donor name may only contain letters, spaces, hyphens and apostrophes")
	}

	mobile, ok := validation.NormalizeMobile(input.Mobile)
	if !ok {
		return nil, invalid("Invalid mobile number")
	}

	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		return nil, invalid("Invalid date of birth, expected YYYY-MM-DD")
	}
	if validation.AgeAt(dob, time.Now()) < minDonorAge {
		return nil, invalid("Donor must be at least 18 years old")
	}

	idType := strings.ToUpper(strings.TrimSpace(input.IDType))
	idNumber := strings.ToUpper(strings.TrimSpace(input.IDNumber))
	if !validation.KnownIDType(idType) {
		return nil, invalid("Unsupported identity document type")
	}
	if !validation.IsValidGovernmentID(idType, idNumber) {
		return nil, invalid(fmt.Sprintf("Invalid %s number", idType))
	}

	if input.Amount < s.MinAmount || input.Amount > s.MaxAmount {
		return nil, invalid(fmt.Sprintf("Amount must be between %.0f and %.0f", s.MinAmount, s.MaxAmount))
	}

	headID, err := uuid.Parse(input.HeadID)
	if err != nil || headID == uuid.Nil {
		return nil, invalid("Invalid donation head")
	}
	var head models.DonationHead
	if err := s.DB.Where("id = ? AND active = ?", headID, true).First(&head).Error; err != nil {
		return nil, invalid("Invalid donation head")
	}

	method := input.Method
	if method == "" {
		method = models.MethodOnline
	}

	donation := models.Donation{
		DonorName:        strings.TrimSpace(input.DonorName),
		DonorMobile:      mobile,
		DonorEmail:       strings.TrimSpace(strings.ToLower(input.Email)),
		EmailOptIn:       input.EmailOptIn,
		DonorAddress:     input.Address,
		AnonymousDisplay: input.AnonymousDisplay,
		DateOfBirth:      dob,
		IDType:           idType,
		IDNumber:         idNumber,
		HeadID:           head.ID,
		HeadName:         head.Name,
		Amount:           input.Amount,
		Method:           method,
		Status:           models.DonationPending,
		TxReference:      strings.TrimSpace(input.TxReference),
		// OTP gating happens before creation; the flag is informational and
		// never client-assertable.
		OtpVerified: false,
	}

	// A supplied referral code must resolve or the whole create fails; a bad
	// code is never silently ignored.
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		info, err := s.Referrals.ValidateCode(code)
		if err != nil {
			return nil, invalid(referrals.ErrInvalidCode.Error())
		}
		donation.CollectorID = &info.ID
		donation.CollectorName = info.Name
		donation.HasCollectorAttribution = true
	}

	if userID != uuid.Nil {
		donation.UserID = &userID
		var u models.User
		if err := s.DB.First(&u, "id = ?", userID).Error; err == nil {
			if u.EmailVerified && strings.EqualFold(u.Email, donation.DonorEmail) {
				donation.EmailVerified = true
			}
		}
	}

	if err := s.DB.Create(&donation).Error; err != nil {
		return nil, err
	}
	log.Info().Str("donation_id", donation.ID.String()).Str("head", donation.HeadName).Float64("amount", donation.Amount).Msg("Donation created")
	return &donation, nil
}

// CreateOrder requests a gateway order for a PENDING online donation and
// stores the order id. Does not change donation status. Calling it again
// returns the already-stored order.
func (s *Service) CreateOrder(ctx context.Context, donationID uuid.UUID) (*OrderView, error) {
	var d models.Donation
	if err := s.DB.First(&d, "id = ?", donationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if d.Status != models.DonationPending {
		return nil, ErrNotPending
	}
	if d.Method != models.MethodOnline {
		return nil, ErrNotOnline
	}

	if d.GatewayOrderID != nil && *d.GatewayOrderID != "" {
		return &OrderView{
			DonationID: d.ID,
			OrderID:    *d.GatewayOrderID,
			Amount:     int64(d.Amount * 100),
			Currency:   "INR",
		}, nil
	}

	order, err := s.Gateway.CreateOrder(ctx, d.Amount, d.ID.String())
	if err != nil {
		log.Error().Err(err).Str("donation_id", d.ID.String()).Msg("Gateway order creation failed")
		return nil, ErrGateway
	}
	if err := s.DB.Model(&d).Update("gateway_order_id", order.ID).Error; err != nil {
		return nil, err
	}
	return &OrderView{
		DonationID: d.ID,
		OrderID:    order.ID,
		Amount:     order.Amount,
		Currency:   order.Currency,
	}, nil
}

// Status is the public, side-effect-free poll target.
func (s *Service) Status(donationID uuid.UUID) (*StatusView, error) {
	var d models.Donation
	if err := s.DB.First(&d, "id = ?", donationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &StatusView{
		ID:               d.ID,
		Status:           d.Status,
		Amount:           d.Amount,
		HeadName:         d.HeadName,
		Method:           d.Method,
		CreatedAt:        d.CreatedAt,
		ReceiptAvailable: d.Status == models.DonationSuccess,
		FailureReason:    d.FailureReason,
	}, nil
}

// ReceiptPath returns the receipt file for a successful donation,
// regenerating the PDF on demand when the artifact is missing on disk.
func (s *Service) ReceiptPath(donationID uuid.UUID) (string, error) {
	var d models.Donation
	if err := s.DB.First(&d, "id = ?", donationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	if d.Status != models.DonationSuccess {
		return "", ErrReceiptNotReady
	}

	if d.ReceiptFile != "" {
		if _, err := os.Stat(d.ReceiptFile); err == nil {
			return d.ReceiptFile, nil
		}
	}

	// Self-healing: SUCCESS with a missing artifact regenerates rather than
	// failing the download. The receipt number already exists on the record.
	path, err := s.Receipts.Generate(&d)
	if err != nil {
		return "", err
	}
	if err := s.DB.Model(&d).Update("receipt_file", path).Error; err != nil {
		return "", err
	}
	return path, nil
}

// ByUser lists an authenticated donor's own donations, newest first.
func (s *Service) ByUser(userID uuid.UUID) ([]models.Donation, error) {
	var list []models.Donation
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		switch f.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", jsonName(f.Field()))
		case "email":
			return "Invalid email address"
		case "uuid":
			return "Invalid donation head"
		case "oneof":
			return "Invalid payment method"
		case "gt":
			return "Amount must be positive"
		default:
			return fmt.Sprintf("Invalid %s", jsonName(f.Field()))
		}
	}
	return "Invalid request"
}

func jsonName(field string) string {
	switch field {
	case "DonorName":
		return "donor_name"
	case "Mobile":
		return "mobile"
	case "Email":
		return "email"
	case "DateOfBirth":
		return "date_of_birth"
	case "IDType":
		return "id_type"
	case "IDNumber":
		return "id_number"
	case "HeadID":
		return "head_id"
	case "Amount":
		return "amount"
	default:
		return strings.ToLower(field)
	}
}
