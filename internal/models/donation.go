package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation lifecycle states. PENDING is the only non-terminal state; the
// payment webhook is the only code path that moves a donation out of it.
const (
	DonationPending = "PENDING"
	DonationSuccess = "SUCCESS"
	DonationFailed  = "FAILED"
)

// Payment methods.
const (
	MethodOnline = "ONLINE"
	MethodCash   = "CASH"
	MethodUPI    = "UPI"
	MethodCheque = "CHEQUE"
)

// Donation is the central record. Donor fields are a snapshot captured at
// creation and never re-derived from the live user profile, so the record
// stays self-contained if the donor later edits anything.
type Donation struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	// Donor snapshot.
	DonorName        string       `gorm:"column:donor_name;not null" json:"donor_name"`
	DonorMobile      string       `gorm:"column:donor_mobile;not null;index" json:"donor_mobile"`
	DonorEmail       string       `gorm:"column:donor_email" json:"donor_email,omitempty"`
	EmailOptIn       bool         `gorm:"column:email_opt_in;default:false" json:"email_opt_in"`
	EmailVerified    bool         `gorm:"column:email_verified;default:false" json:"email_verified"`
	DonorAddress     DonorAddress `gorm:"column:donor_address;type:text" json:"donor_address"`
	AnonymousDisplay bool         `gorm:"column:anonymous_display;default:false" json:"anonymous_display"`
	DateOfBirth      time.Time    `gorm:"column:date_of_birth" json:"-"`
	IDType           string       `gorm:"column:id_type;not null" json:"-"`
	IDNumber         string       `gorm:"column:id_number;not null" json:"-"`

	// Denormalized cause. HeadName is the durable join key used by
	// aggregation; head records may be edited or retired independently.
	HeadID   uuid.UUID `gorm:"column:head_id;type:uuid;not null" json:"head_id"`
	HeadName string    `gorm:"column:head_name;not null;index" json:"head_name"`

	Amount float64 `gorm:"column:amount;not null" json:"amount"`

	// Collector attribution. HasCollectorAttribution, not a non-null
	// CollectorID, is the authoritative filter for collector statistics:
	// migrated records may carry a collector id without attribution intent.
	CollectorID             *uuid.UUID `gorm:"column:collector_id;type:uuid;index" json:"collector_id,omitempty"`
	CollectorName           string     `gorm:"column:collector_name" json:"collector_name,omitempty"`
	HasCollectorAttribution bool       `gorm:"column:has_collector_attribution;default:false;index" json:"has_collector_attribution"`

	// Payment.
	Method           string  `gorm:"column:method;not null;default:ONLINE" json:"method"`
	GatewayOrderID   *string `gorm:"column:gateway_order_id;uniqueIndex" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string  `gorm:"column:gateway_payment_id" json:"gateway_payment_id,omitempty"`
	Status           string  `gorm:"column:status;not null;default:PENDING;index" json:"status"`
	TxReference      string  `gorm:"column:tx_reference" json:"tx_reference,omitempty"`
	FailureReason    string  `gorm:"column:failure_reason" json:"failure_reason,omitempty"`

	// Receipt. ReceiptNumber is assigned exactly once, atomically with the
	// SUCCESS transition.
	ReceiptNumber    *string `gorm:"column:receipt_number;uniqueIndex" json:"receipt_number,omitempty"`
	ReceiptFile      string  `gorm:"column:receipt_file" json:"-"`
	ReceiptEmailSent bool    `gorm:"column:receipt_email_sent;default:false" json:"receipt_email_sent"`

	// OtpVerified is server-set only and informational; OTP gating happens
	// before creation and is never re-assertable from a request body.
	OtpVerified bool `gorm:"column:otp_verified;default:false" json:"otp_verified"`

	// Optional link to an authenticated donor account.
	UserID *uuid.UUID `gorm:"column:user_id;type:uuid;index" json:"user_id,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Donation) TableName() string {
	return "Donations"
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the donation has reached a final state.
func (d *Donation) IsTerminal() bool {
	return d.Status == DonationSuccess || d.Status == DonationFailed
}

// DisplayDonorName honours the donor's anonymous-display request.
func (d *Donation) DisplayDonorName() string {
	if d.AnonymousDisplay {
		return "Anonymous"
	}
	return d.DonorName
}
