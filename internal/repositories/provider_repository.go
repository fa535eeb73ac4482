package repositories

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"khidma/internal/models/db_models"
)

type IProviderRepository interface {
	Create(ctx context.Context, provider *db_models.ServiceProvider) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.ServiceProvider, error)
	FindByEmail(ctx context.Context, email string) (*db_models.ServiceProvider, error)
	CountServices(ctx context.Context, providerID uuid.UUID) (int, error)
	CountBookingsThisMonth(ctx context.Context, providerID uuid.UUID) (int, error)
}

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) IProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(ctx context.Context, provider *db_models.ServiceProvider) error {
	return r.db.WithContext(ctx).Create(provider).Error
}

func (r *ProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.ServiceProvider, error) {
	var provider db_models.ServiceProvider
	err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) FindByEmail(ctx context.Context, email string) (*db_models.ServiceProvider, error) {
	var provider db_models.ServiceProvider
	err := r.db.WithContext(ctx).First(&provider, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) CountServices(ctx context.Context, providerID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Service{}).
		Where("provider_id = ? AND is_active = TRUE", providerID).
		Count(&count).Error
	return int(count), err
}

func (r *ProviderRepository) CountBookingsThisMonth(ctx context.Context, providerID uuid.UUID) (int, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Unix()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Booking{}).
		Where("provider_id = ? AND created_at >= ?", providerID, monthStart).
		Count(&count).Error
	return int(count), err
}
