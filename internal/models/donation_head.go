package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonationHead is a named cause a donation is earmarked for. Donations keep
// a {id, name} snapshot; the name is the durable join key downstream.
type DonationHead struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Active      bool      `gorm:"column:active;default:true" json:"active"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DonationHead) TableName() string {
	return "DonationHeads"
}

func (h *DonationHead) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
