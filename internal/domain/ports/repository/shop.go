package repository

import (
	"context"

	"visualcart-billing/internal/domain/model"
)

// ShopPatch is a partial update for a ShopAccount row. Nil fields are left
// untouched, so two concurrent writers (the interactive flow and the webhook
// synchronizer) never silently discard each other's columns.
type ShopPatch struct {
	AccessToken        *string
	SubscriptionActive *bool
	Plan               *model.Plan
	PendingPromoCode   *string // pointer to "" clears the column
	CreditApplied      *bool
}

// ShopAccountRepository is the port for entitlement persistence.
//
// Upsert creates the row with caller-supplied defaults when absent and applies
// the patch atomically otherwise. ApplyCredit is the single safety-critical
// transition: it must be a conditional update keyed on the previously observed
// (pending_promo_code, credit_applied) pair, never a read-modify-write.
type ShopAccountRepository interface {
	Find(ctx context.Context, tx Tx, shopDomain string) (*model.ShopAccount, error)
	Upsert(ctx context.Context, tx Tx, shopDomain string, patch ShopPatch) error
	// ApplyCredit atomically sets credit_applied=true and clears
	// pending_promo_code, conditioned on the code still pending. Returns
	// domain.ErrCreditAlreadyApplied when the condition no longer holds.
	ApplyCredit(ctx context.Context, tx Tx, shopDomain, pendingCode string) error
	Delete(ctx context.Context, tx Tx, shopDomain string) error
}
