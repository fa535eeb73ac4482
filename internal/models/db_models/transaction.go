package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "pending"
	TxnStatusCompleted TransactionStatus = "completed"
	TxnStatusFailed    TransactionStatus = "failed"
)

type TransactionType string

const (
	TxnTypeSubscription TransactionType = "subscription"
	TxnTypeRenewal      TransactionType = "renewal"
)

type SubscriptionTransaction struct {
	BaseModel
	SubscriptionID uuid.UUID `gorm:"index"`
	PaymentID      uuid.UUID `gorm:"uniqueIndex"`

	Amount   decimal.Decimal `gorm:"type:numeric(10,2)"`
	Currency string          `gorm:"size:3"`

	TransactionType TransactionType   `gorm:"size:24"`
	Status          TransactionStatus `gorm:"size:16;index"`

	InvoiceNumber string `gorm:"uniqueIndex"`

	BillingPeriodStart int64
	BillingPeriodEnd   int64

	ProcessedAt   *int64
	FailureReason *string

	Subscription ServiceSubscription `gorm:"foreignKey:SubscriptionID"`
	Payment      Payment             `gorm:"foreignKey:PaymentID"`
}
