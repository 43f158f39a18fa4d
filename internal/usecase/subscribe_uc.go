// File: internal/usecase/subscribe_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"visualcart-billing/internal/domain/ports/adapter"
	"visualcart-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ SubscribeUseCase = (*subscribeUC)(nil)

// SubscribeUseCase drives the interactive subscribe action: resolve the promo,
// ask the gateway for a subscription confirmation, then record intent locally.
type SubscribeUseCase interface {
	// Subscribe returns the provider URL the merchant must visit to confirm
	// the recurring charge. Promo validation errors surface unchanged for the
	// caller to display.
	Subscribe(ctx context.Context, shop, accessToken, rawPromoCode string) (confirmationURL string, err error)
}

type subscribeUC struct {
	resolver PromoResolver
	shops    repository.ShopAccountRepository
	gateway  adapter.BillingGateway
	// returnURL is where the provider sends the merchant after confirming.
	returnURL string
	log       *zerolog.Logger
}

func NewSubscribeUseCase(resolver PromoResolver, shops repository.ShopAccountRepository, gateway adapter.BillingGateway, returnURL string, log *zerolog.Logger) *subscribeUC {
	return &subscribeUC{resolver: resolver, shops: shops, gateway: gateway, returnURL: returnURL, log: log}
}

func (u *subscribeUC) Subscribe(ctx context.Context, shop, accessToken, rawPromoCode string) (string, error) {
	selection, err := u.resolver.Resolve(ctx, rawPromoCode)
	if err != nil {
		return "", err
	}

	confirmationURL, err := u.gateway.Require(ctx, shop, accessToken, selection.PlanToUse, u.returnURL)
	if err != nil {
		// A declined confirmation is terminal for the attempt; nothing has
		// been written yet, so the flow exits without side effects.
		return "", err
	}

	// Record intent. A RECURRING promo only changed the plan identifier sent
	// to the gateway; it never touches the pending-credit pair.
	patch := repository.ShopPatch{AccessToken: &accessToken}
	if selection.DeferredCredit != nil {
		pending := selection.DeferredCredit.Code
		applied := false
		patch.PendingPromoCode = &pending
		patch.CreditApplied = &applied
	}
	if err := u.shops.Upsert(ctx, repository.NoTX, shop, patch); err != nil {
		return "", err
	}

	u.log.Info().
		Str("shop", shop).
		Str("plan", selection.PlanToUse).
		Bool("deferred_credit", selection.DeferredCredit != nil).
		Msg("subscription requested")
	return confirmationURL, nil
}
