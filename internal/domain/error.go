package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Promo code validation errors. These surface to the interactive caller
	// as structured results, never as server failures.
	ErrInvalidPromoCode            = errors.New("promo code not found")
	ErrInactivePromoCode           = errors.New("promo code is not active")
	ErrUnsupportedPromoCombination = errors.New("unsupported promo type/percent combination")

	// Billing errors
	ErrGatewayUnavailable   = errors.New("billing gateway unavailable")
	ErrCreditAlreadyApplied = errors.New("credit already applied")
	ErrBillingDeclined      = errors.New("billing confirmation declined")

	// Webhook errors
	ErrUnknownWebhookTopic = errors.New("unknown webhook topic")
	ErrInvalidWebhookHMAC  = errors.New("webhook hmac verification failed")

	// Infra errors
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrLockNotAcquired    = errors.New("could not acquire lock")
)
