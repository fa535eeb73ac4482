package request_models

import "github.com/google/uuid"

type SubscribeRequest struct {
	PlanID       uuid.UUID `json:"plan_id" binding:"required"`
	BillingCycle string    `json:"billing_cycle" binding:"required,oneof=monthly yearly"`
	AutoRenew    *bool     `json:"auto_renew"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}
