package logger_fx

import (
	"log"

	"go.uber.org/fx"

	"khidma/pkg/logger"
)

var Module = fx.Provide(provideLogger)

func provideLogger() *logger.Logger {
	instance, err := logger.NewLogger()
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	return instance
}
