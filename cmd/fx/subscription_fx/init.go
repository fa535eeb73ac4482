package subscription_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"khidma/cmd/fx/gateway_fx"
	"khidma/internal/api/controllers"
	"khidma/internal/gateway"
	"khidma/internal/repositories"
	"khidma/internal/services"
	"khidma/pkg/logger"
)

var Module = fx.Provide(
	provideBillingRepository,
	provideLedgerService,
	provideSubscriptionService,
	provideSubscriptionController,
)

func provideBillingRepository(db *gorm.DB) repositories.IBillingRepository {
	return repositories.NewBillingRepository(db)
}

func provideLedgerService(
	billingRepo repositories.IBillingRepository,
	providerRepo repositories.IProviderRepository,
	planRepo repositories.IPlanRepository,
	log *logger.Logger,
) services.LedgerServiceInterface {
	return services.NewLedgerService(billingRepo, providerRepo, planRepo, gateway_fx.Currency(), log)
}

func provideSubscriptionService(
	planRepo repositories.IPlanRepository,
	providerRepo repositories.IProviderRepository,
	billingRepo repositories.IBillingRepository,
	ledger services.LedgerServiceInterface,
	gw gateway.Client,
	log *logger.Logger,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(planRepo, providerRepo, billingRepo, ledger, gw, log)
}

func provideSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService)
}
