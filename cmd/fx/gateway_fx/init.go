package gateway_fx

import (
	"os"
	"strings"
	"time"

	"go.uber.org/fx"

	"khidma/internal/gateway"
	"khidma/pkg/logger"
)

var Module = fx.Provide(provideGatewayClient)

func provideGatewayClient(log *logger.Logger) gateway.Client {
	baseURL := os.Getenv("PAYTABS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://secure.paytabs.sa"
	}
	appBase := strings.TrimRight(os.Getenv("APP_BASE_URL"), "/")

	timeout := 15 * time.Second
	if raw := os.Getenv("GATEWAY_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	cfg := gateway.Config{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		ProfileID:   os.Getenv("PAYTABS_PROFILE_ID"),
		ServerKey:   os.Getenv("PAYTABS_SERVER_KEY"),
		Currency:    currency(),
		CallbackURL: appBase + "/api/v1/payments/callback",
		ReturnURL:   appBase + "/api/v1/payments/return",
		Timeout:     timeout,
	}
	return gateway.NewPayTabsClient(cfg, log)
}

// Currency exposes the configured billing currency to other modules.
func Currency() string { return currency() }

func currency() string {
	if c := os.Getenv("PAYTABS_CURRENCY"); c != "" {
		return c
	}
	return "SAR"
}
