package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"khidma/internal/models/db_models"
)

type IPlanRepository interface {
	GetByID(ctx context.Context, planID uuid.UUID) (*db_models.SubscriptionPlan, error)
	ListActive(ctx context.Context) ([]db_models.SubscriptionPlan, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.SubscriptionPlan, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p *PlanRepository) GetByID(ctx context.Context, planID uuid.UUID) (*db_models.SubscriptionPlan, error) {
	var plan db_models.SubscriptionPlan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p *PlanRepository) ListActive(ctx context.Context) ([]db_models.SubscriptionPlan, error) {
	var plans []db_models.SubscriptionPlan
	err := p.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order("order_position ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (p *PlanRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.SubscriptionPlan, error) {
	var plans []db_models.SubscriptionPlan
	err := p.db.WithContext(ctx).
		Where("id IN ? AND is_active = TRUE", ids).
		Order("order_position ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
