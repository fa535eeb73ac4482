package services

import (
	"context"

	"khidma/internal/models/db_models"
	"khidma/internal/models/request_models"
	"khidma/internal/repositories"
	"khidma/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request *request_models.RegisterRequest) (string, error)
	Login(ctx context.Context, request *request_models.LoginRequest) (string, error)
}

type AccountService struct {
	providerRepo repositories.IProviderRepository
}

func NewAccountService(providerRepo repositories.IProviderRepository) AccountServiceInterface {
	return &AccountService{providerRepo: providerRepo}
}

func (a *AccountService) Register(ctx context.Context, request *request_models.RegisterRequest) (string, error) {
	existing, err := a.providerRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if existing != nil {
		return "", utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return "", utils.ErrDatabaseError
	}

	provider := &db_models.ServiceProvider{
		Name:         request.Name,
		Email:        request.Email,
		PasswordHash: hashedPassword,
		Phone:        request.Phone,
		// activation flips when the first subscription payment clears
		IsActive: false,
	}
	if err := a.providerRepo.Create(ctx, provider); err != nil {
		return "", utils.ErrDatabaseError
	}

	return utils.CreateToken(provider.ID)
}

func (a *AccountService) Login(ctx context.Context, request *request_models.LoginRequest) (string, error) {
	provider, err := a.providerRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if provider == nil {
		return "", utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(provider.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	return utils.CreateToken(provider.ID)
}
