package db_models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

type SubscriptionPlan struct {
	BaseModel
	Name         string `gorm:"uniqueIndex"`
	Description  *string
	PriceMonthly decimal.Decimal `gorm:"type:numeric(10,2)"`
	PriceYearly  decimal.Decimal `gorm:"type:numeric(10,2)"`

	// nil means unlimited
	MaxServices         *int
	MaxBookingsPerMonth *int

	PrioritySupport bool `gorm:"default:false"`
	AnalyticsAccess bool `gorm:"default:false"`

	OrderPosition int  `gorm:"default:0;index"`
	IsActive      bool `gorm:"default:true"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}

// PriceFor returns the plan price for a billing cycle.
func (p *SubscriptionPlan) PriceFor(cycle BillingCycle) decimal.Decimal {
	if cycle == CycleYearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}
