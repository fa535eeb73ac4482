package services

import (
	"khidma/internal/models/db_models"
	"khidma/internal/models/response_models"
)

// ProjectQuota derives one quota dimension from a usage count and an
// optional ceiling. A nil limit means unlimited; remaining never goes
// negative when usage is already over quota.
func ProjectQuota(used int, limit *int) response_models.QuotaView {
	if limit == nil {
		return response_models.QuotaView{Used: used, Unlimited: true}
	}
	remaining := *limit - used
	if remaining < 0 {
		remaining = 0
	}
	return response_models.QuotaView{
		Used:      used,
		Limit:     limit,
		Remaining: &remaining,
	}
}

func ProjectFeatures(plan *db_models.SubscriptionPlan) response_models.FeatureView {
	return response_models.FeatureView{
		PrioritySupport: plan.PrioritySupport,
		AnalyticsAccess: plan.AnalyticsAccess,
	}
}
