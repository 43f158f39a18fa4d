package adapter

import (
	"context"

	"visualcart-billing/internal/domain/model"
)

// BillingStatus is the provider's answer to a subscription check.
type BillingStatus struct {
	ActivePayment bool
	MatchedPlan   string // empty when no candidate matched
}

// BillingGateway is the port for the external billing provider. The provider
// is the source of truth for whether a payment is active. None of these calls
// are idempotent on the provider side; callers must avoid duplicates.
type BillingGateway interface {
	Name() string

	// Check reports whether the shop has an active payment on any of the
	// candidate plans.
	Check(ctx context.Context, shop, accessToken string, planCandidates []string) (BillingStatus, error)

	// Require initiates a subscription on the given plan and returns the URL
	// the merchant must visit to confirm the recurring charge. A merchant
	// declining the confirmation is terminal for the attempt; no state is
	// written on that path.
	Require(ctx context.Context, shop, accessToken, plan, returnURL string) (confirmationURL string, err error)

	// CreateCredit issues a one-time credit against the shop's next invoice
	// and returns the provider's opaque credit id.
	CreateCredit(ctx context.Context, shop, accessToken, description string, amount model.Money) (creditID string, err error)
}
