package response_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscribeResponse struct {
	SubscriptionID  uuid.UUID       `json:"subscription_id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	NextBillingDate int64           `json:"next_billing_date"`
	RedirectURL     string          `json:"redirect_url"`
}

type CancelResponse struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Status         string    `json:"status"`
	AccessUntil    int64     `json:"access_until"`
}

// QuotaView reports one quota dimension. Remaining is nil when the plan
// imposes no ceiling.
type QuotaView struct {
	Used      int  `json:"used"`
	Limit     *int `json:"limit"`
	Remaining *int `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

type FeatureView struct {
	PrioritySupport bool `json:"priority_support"`
	AnalyticsAccess bool `json:"analytics_access"`
}

type MySubscriptionResponse struct {
	SubscriptionID     uuid.UUID   `json:"subscription_id"`
	PlanID             uuid.UUID   `json:"plan_id"`
	PlanName           string      `json:"plan_name"`
	Status             string      `json:"status"`
	BillingCycle       string      `json:"billing_cycle"`
	CurrentPeriodStart int64       `json:"current_period_start"`
	CurrentPeriodEnd   int64       `json:"current_period_end"`
	NextBillingDate    *int64      `json:"next_billing_date,omitempty"`
	AutoRenew          bool        `json:"auto_renew"`
	Services           QuotaView   `json:"services"`
	Bookings           QuotaView   `json:"bookings"`
	Features           FeatureView `json:"features"`
}

// ReconcileResponse is returned to the gateway (callback) or the browser
// (return) after a notification has been applied.
type ReconcileResponse struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Status         string    `json:"status"`
	AlreadyFinal   bool      `json:"already_final"`
}
