package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"khidma/internal/api/controllers"
	"khidma/internal/repositories"
	"khidma/internal/services"
)

var Module = fx.Provide(
	provideProviderRepository,
	provideAccountService,
	provideAccountController,
)

func provideProviderRepository(db *gorm.DB) repositories.IProviderRepository {
	return repositories.NewProviderRepository(db)
}

func provideAccountService(providerRepo repositories.IProviderRepository) services.AccountServiceInterface {
	return services.NewAccountService(providerRepo)
}

func provideAccountController(accountService services.AccountServiceInterface) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
