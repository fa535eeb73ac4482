package payment_fx

import (
	"os"

	"go.uber.org/fx"

	"khidma/internal/api/controllers"
	"khidma/internal/gateway"
	"khidma/internal/repositories"
	"khidma/internal/services"
	"khidma/pkg/logger"
)

var Module = fx.Provide(
	provideReconcileService,
	providePaymentController,
)

func provideReconcileService(
	billingRepo repositories.IBillingRepository,
	ledger services.LedgerServiceInterface,
	gw gateway.Client,
	log *logger.Logger,
) services.ReconcileServiceInterface {
	cfg := services.ReconcileConfig{
		TrustWebhook: os.Getenv("GATEWAY_TRUST_WEBHOOK") == "true",
	}
	return services.NewReconcileService(billingRepo, ledger, gw, cfg, log)
}

func providePaymentController(reconcileService services.ReconcileServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(reconcileService)
}
