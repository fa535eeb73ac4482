package sweeper_fx

import (
	"context"
	"os"
	"time"

	"go.uber.org/fx"

	"khidma/internal/gateway"
	"khidma/internal/repositories"
	"khidma/internal/services"
	"khidma/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(provideSweeper),
	fx.Invoke(registerSweeper),
)

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

func provideSweeper(
	billingRepo repositories.IBillingRepository,
	ledger services.LedgerServiceInterface,
	gw gateway.Client,
	log *logger.Logger,
) *services.PendingSweeper {
	ttl := envDuration("PENDING_TTL", time.Hour)
	interval := envDuration("PENDING_SWEEP_INTERVAL", 10*time.Minute)
	return services.NewPendingSweeper(billingRepo, ledger, gw, ttl, interval, log)
}

func registerSweeper(lc fx.Lifecycle, sweeper *services.PendingSweeper) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweeper.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
