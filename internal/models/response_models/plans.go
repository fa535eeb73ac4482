package response_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Description         *string         `json:"description,omitempty"`
	PriceMonthly        decimal.Decimal `json:"price_monthly"`
	PriceYearly         decimal.Decimal `json:"price_yearly"`
	MaxServices         *int            `json:"max_services"`
	MaxBookingsPerMonth *int            `json:"max_bookings_per_month"`
	PrioritySupport     bool            `json:"priority_support"`
	AnalyticsAccess     bool            `json:"analytics_access"`
}

// PlanComparison is one row of the compare view: the plan plus the price
// that applies for the requested billing cycle.
type PlanComparison struct {
	PlanResponse
	BillingCycle string          `json:"billing_cycle"`
	Price        decimal.Decimal `json:"price"`
}
