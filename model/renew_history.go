package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenewHistory 续费记录
type RenewHistory struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ServiceID        uint            `gorm:"index;not null" json:"service_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Currency         string          `gorm:"size:8" json:"currency"`
	RenewedAt        time.Time       `json:"renewed_at"`
	PreviousExpiryAt *time.Time      `json:"previous_expiry_at"`
	NewExpiryAt      *time.Time      `json:"new_expiry_at"`
	Status           string          `gorm:"size:16" json:"status"` // success, failed, refunded
	Note             string          `gorm:"size:255" json:"note"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (RenewHistory) TableName() string {
	return "renew_histories"
}
