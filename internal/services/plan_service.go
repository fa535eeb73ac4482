package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"khidma/internal/models/db_models"
	"khidma/internal/models/response_models"
	"khidma/internal/repositories"
	"khidma/pkg/utils"
)

type PlanServiceInterface interface {
	ListActive(ctx context.Context) ([]response_models.PlanResponse, error)
	GetByID(ctx context.Context, planID uuid.UUID) (*response_models.PlanResponse, error)
	Compare(ctx context.Context, ids []uuid.UUID, cycle db_models.BillingCycle) ([]response_models.PlanComparison, error)
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{planRepo: planRepo}
}

func toPlanResponse(plan db_models.SubscriptionPlan) response_models.PlanResponse {
	return response_models.PlanResponse{
		ID:                  plan.ID,
		Name:                plan.Name,
		Description:         plan.Description,
		PriceMonthly:        plan.PriceMonthly,
		PriceYearly:         plan.PriceYearly,
		MaxServices:         plan.MaxServices,
		MaxBookingsPerMonth: plan.MaxBookingsPerMonth,
		PrioritySupport:     plan.PrioritySupport,
		AnalyticsAccess:     plan.AnalyticsAccess,
	}
}

func (p *PlanService) ListActive(ctx context.Context) ([]response_models.PlanResponse, error) {
	plans, err := p.planRepo.ListActive(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return lo.Map(plans, func(plan db_models.SubscriptionPlan, _ int) response_models.PlanResponse {
		return toPlanResponse(plan)
	}), nil
}

func (p *PlanService) GetByID(ctx context.Context, planID uuid.UUID) (*response_models.PlanResponse, error) {
	plan, err := p.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || !plan.IsActive {
		return nil, utils.ErrPlanNotFound
	}
	resp := toPlanResponse(*plan)
	return &resp, nil
}

func (p *PlanService) Compare(ctx context.Context, ids []uuid.UUID, cycle db_models.BillingCycle) ([]response_models.PlanComparison, error) {
	if len(ids) == 0 {
		return nil, utils.ErrValidation
	}

	plans, err := p.planRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return lo.Map(plans, func(plan db_models.SubscriptionPlan, _ int) response_models.PlanComparison {
		return response_models.PlanComparison{
			PlanResponse: toPlanResponse(plan),
			BillingCycle: string(cycle),
			Price:        plan.PriceFor(cycle),
		}
	}), nil
}
