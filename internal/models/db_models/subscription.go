package db_models

import (
	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusPending       SubscriptionStatus = "pending"
	SubStatusActive        SubscriptionStatus = "active"
	SubStatusTrial         SubscriptionStatus = "trial"
	SubStatusPaymentFailed SubscriptionStatus = "payment_failed"
	SubStatusCancelled     SubscriptionStatus = "cancelled"
	SubStatusExpired       SubscriptionStatus = "expired"
)

// OpenStatuses are the states in which a provider may not start another
// subscription. At most one subscription per provider is ever in one of these.
var OpenStatuses = []SubscriptionStatus{SubStatusPending, SubStatusActive, SubStatusTrial}

type ServiceSubscription struct {
	BaseModel
	ProviderID uuid.UUID `gorm:"index"`
	PlanID     uuid.UUID `gorm:"index"`

	BillingCycle BillingCycle       `gorm:"size:16"`
	Status       SubscriptionStatus `gorm:"size:24;index"`

	// unix seconds
	CurrentPeriodStart int64 `gorm:"not null"`
	CurrentPeriodEnd   int64 `gorm:"not null"`
	NextBillingDate    *int64
	TrialEndsAt        *int64

	AutoRenew bool `gorm:"default:true"`

	CancellationReason *string
	CancelledAt        *int64

	Provider ServiceProvider  `gorm:"foreignKey:ProviderID"`
	Plan     SubscriptionPlan `gorm:"foreignKey:PlanID"`
}
