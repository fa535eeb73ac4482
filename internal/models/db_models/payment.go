package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	BaseModel
	ProviderID uuid.UUID       `gorm:"index"`
	Amount     decimal.Decimal `gorm:"type:numeric(10,2)"`
	Currency   string          `gorm:"size:3"`

	// CartID is generated locally and sent to the gateway; TranRef is
	// assigned by the gateway and stays nil until the gateway responds.
	CartID  string  `gorm:"uniqueIndex"`
	TranRef *string `gorm:"index"`

	Status PaymentStatus `gorm:"size:16;index"`
}
