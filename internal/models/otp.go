package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OtpRecord is ephemeral: created on send, superseded on re-send, deleted on
// successful verify or by the cleanup sweep. The code is stored only as a
// bcrypt hash, never in plaintext.
type OtpRecord struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Mobile    string    `gorm:"column:mobile;not null;index" json:"mobile"`
	CodeHash  string    `gorm:"column:code_hash;not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"createdAt"`
}

func (OtpRecord) TableName() string {
	return "OtpRecords"
}

func (o *OtpRecord) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
