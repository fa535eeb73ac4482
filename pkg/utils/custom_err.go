package utils

import "github.com/cockroachdb/errors"

var (
	ErrValidation               = errors.New("validation failed")
	ErrPlanNotFound             = errors.New("plan not found")
	ErrProviderNotFound         = errors.New("provider not found")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrSubscriptionNotFound     = errors.New("no active subscription found")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrActiveSubscriptionExists = errors.New("an open subscription already exists for this provider")
	ErrGatewayUnavailable       = errors.New("payment gateway unavailable")
	ErrVerificationUndetermined = errors.New("payment verification undetermined")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailAlreadyExists       = errors.New("email already registered")
	ErrDatabaseError            = errors.New("database error")
)
