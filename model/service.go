package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service 订阅的服务（域名、主机、SaaS套餐等）
type Service struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:128;not null" json:"name"`
	Provider      string          `gorm:"size:128" json:"provider"`
	Plan          string          `gorm:"size:64" json:"plan"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Currency      string          `gorm:"size:8" json:"currency"`
	RenewalCycle  string          `gorm:"size:16" json:"renewal_cycle"` // monthly, yearly
	NextRenewalAt *time.Time      `json:"next_renewal_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}
