package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles. Every registered user is a potential collector.
const (
	RoleUser              = "USER"
	RoleCollectorPending  = "COLLECTOR_PENDING"
	RoleCollectorApproved = "COLLECTOR_APPROVED"
	RoleAdmin             = "ADMIN"
	RoleSuperAdmin        = "SUPER_ADMIN"
)

// KYC review states for the collector profile.
const (
	KYCNone     = "none"
	KYCPending  = "pending"
	KYCApproved = "approved"
	KYCRejected = "rejected"
)

// User is a registered user; collector fields are populated once the user
// applies and an admin approves.
type User struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"column:name;not null" json:"name"`
	Email         string    `gorm:"column:email;uniqueIndex" json:"email"`
	EmailVerified bool      `gorm:"column:email_verified;default:false" json:"email_verified"`
	EmailOptIn    bool      `gorm:"column:email_opt_in;default:false" json:"email_opt_in"`
	Mobile        string    `gorm:"column:mobile;index" json:"mobile"`
	Role          string    `gorm:"column:role;not null;default:USER" json:"role"`

	// ReferralCode is assigned at most once; NULL means not yet a collector
	// or not yet assigned.
	ReferralCode      *string `gorm:"column:referral_code;uniqueIndex" json:"referral_code"`
	CollectorDisabled bool    `gorm:"column:collector_disabled;default:false" json:"collector_disabled"`

	// KYC sub-record, lifecycle driven by admin review.
	KYCIDType       string         `gorm:"column:kyc_id_type" json:"kyc_id_type,omitempty"`
	KYCIDNumber     string         `gorm:"column:kyc_id_number" json:"-"`
	KYCDocuments    datatypes.JSON `gorm:"column:kyc_documents" json:"-"`
	KYCStatus       string         `gorm:"column:kyc_status;not null;default:none" json:"kyc_status"`
	KYCAppliedAt    *time.Time     `gorm:"column:kyc_applied_at" json:"kyc_applied_at,omitempty"`
	KYCReviewedAt   *time.Time     `gorm:"column:kyc_reviewed_at" json:"kyc_reviewed_at,omitempty"`
	KYCRejectReason string         `gorm:"column:kyc_reject_reason" json:"kyc_reject_reason,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
