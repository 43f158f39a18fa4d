// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/adapter"
	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/infra/logging"
	"visualcart-billing/internal/infra/metrics"
	red "visualcart-billing/internal/infra/redis"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// StatusResult is what the dashboard renders on every page load.
type StatusResult struct {
	Shop               string     `json:"shop"`
	SubscriptionActive bool       `json:"subscription_active"`
	Plan               model.Plan `json:"plan"`
}

// EntitlementUseCase re-checks gateway status, grants the deferred credit when
// one is owed, and flips the externally visible feature flag.
type EntitlementUseCase interface {
	// Status checks the gateway and opportunistically runs the credit
	// application workflow. Gateway or store failures during the credit grant
	// are logged and swallowed; the condition re-triggers on the next check.
	Status(ctx context.Context, shop string) (*StatusResult, error)
	// Activate pushes the feature flag and records the pro entitlement.
	Activate(ctx context.Context, shop string) error
}

type entitlementUC struct {
	shops      repository.ShopAccountRepository
	promos     repository.PromoCodeRepository
	tokens     *TokenResolver
	gateway    adapter.BillingGateway
	storefront adapter.StorefrontAPI
	locker     red.Locker
	log        *zerolog.Logger
}

func NewEntitlementUseCase(
	shops repository.ShopAccountRepository,
	promos repository.PromoCodeRepository,
	sessions repository.SessionRepository,
	gateway adapter.BillingGateway,
	storefront adapter.StorefrontAPI,
	locker red.Locker,
	log *zerolog.Logger,
) *entitlementUC {
	return &entitlementUC{
		shops:      shops,
		promos:     promos,
		tokens:     NewTokenResolver(shops, sessions),
		gateway:    gateway,
		storefront: storefront,
		locker:     locker,
		log:        log,
	}
}

var planCandidates = []string{model.MonthlyPlan, model.DiscountedMonthlyPlan}

func (u *entitlementUC) Status(ctx context.Context, shop string) (*StatusResult, error) {
	defer logging.TraceDuration(u.log, "EntitlementUC.Status")()

	token, err := u.tokens.AccessToken(ctx, shop)
	if err != nil {
		return nil, err
	}

	status, err := u.gateway.Check(ctx, shop, token, planCandidates)
	if err != nil {
		return nil, err
	}

	plan := model.PlanFree
	acct, err := u.shops.Find(ctx, repository.NoTX, shop)
	switch {
	case err == nil:
		plan = acct.Plan
		if status.ActivePayment && acct.CreditOwed() {
			u.applyDeferredCredit(ctx, shop, token, acct.PendingPromoCode)
		}
	case errors.Is(err, domain.ErrNotFound):
		// First load before any subscribe: report defaults, create nothing.
	default:
		return nil, err
	}

	return &StatusResult{
		Shop:               shop,
		SubscriptionActive: status.ActivePayment,
		Plan:               plan,
	}, nil
}

func (u *entitlementUC) Activate(ctx context.Context, shop string) error {
	token, err := u.tokens.AccessToken(ctx, shop)
	if err != nil {
		return err
	}

	if err := u.storefront.SetFeatureActive(ctx, shop, token, true); err != nil {
		return err
	}

	active := true
	plan := model.PlanPro
	if err := u.shops.Upsert(ctx, repository.NoTX, shop, repository.ShopPatch{
		AccessToken:        &token,
		SubscriptionActive: &active,
		Plan:               &plan,
	}); err != nil {
		return err
	}

	u.log.Info().Str("shop", shop).Msg("feature activated")
	return nil
}

// creditLockTTL bounds how long a crashed runner can block the grant for a
// shop. Generous relative to a single gateway call.
const creditLockTTL = 30 * time.Second

// applyDeferredCredit grants the one-time credit at most once. The redis lock
// serializes concurrent page loads for the same shop; the conditional
// ApplyCredit update is the correctness backstop when the lock expires or is
// unavailable. Every failure here is deliberately swallowed: the trigger
// condition re-fires on the next status check.
func (u *entitlementUC) applyDeferredCredit(ctx context.Context, shop, token, pendingCode string) {
	lockKey := "credit:" + shop
	lockToken, err := u.locker.TryLock(ctx, lockKey, creditLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			metrics.IncCreditGrant("locked")
			return
		}
		u.log.Warn().Err(err).Str("shop", shop).Msg("credit lock unavailable, deferring grant")
		metrics.IncCreditGrant("locked")
		return
	}
	defer func() { _ = u.locker.Unlock(ctx, lockKey, lockToken) }()

	// Re-read under the lock: another runner may have finished already.
	acct, err := u.shops.Find(ctx, repository.NoTX, shop)
	if err != nil || !acct.CreditOwed() || acct.PendingPromoCode != pendingCode {
		return
	}

	promo, err := u.promos.FindByCode(ctx, repository.NoTX, pendingCode)
	if err != nil {
		u.log.Error().Err(err).Str("shop", shop).Str("code", pendingCode).Msg("pending promo vanished from catalog")
		return
	}

	amount := model.OneTimeCreditAmount(promo.DiscountPercent)
	description := fmt.Sprintf("Promo %s: %d%% off first month", promo.Code, promo.DiscountPercent)

	creditID, err := u.gateway.CreateCredit(ctx, shop, token, description, amount)
	if err != nil {
		// Retryable: state untouched, next status check re-triggers.
		metrics.IncCreditGrant("gateway_error")
		u.log.Warn().Err(err).Str("shop", shop).Str("code", pendingCode).Msg("credit grant failed, will retry on next check")
		return
	}

	if err := u.shops.ApplyCredit(ctx, repository.NoTX, shop, pendingCode); err != nil {
		if errors.Is(err, domain.ErrCreditAlreadyApplied) {
			// Lost the race after creating the credit. The store stays
			// consistent; the duplicate provider credit is the residual risk
			// the lock exists to make rare.
			metrics.IncCreditGrant("lost_race")
			u.log.Error().Str("shop", shop).Str("code", pendingCode).Str("credit_id", creditID).
				Msg("credit grant lost conditional update race after provider call")
			return
		}
		metrics.IncCreditGrant("store_error")
		u.log.Error().Err(err).Str("shop", shop).Str("code", pendingCode).Msg("credit state update failed")
		return
	}

	metrics.IncCreditGrant("granted")
	u.log.Info().Str("shop", shop).Str("code", pendingCode).Str("credit_id", creditID).
		Str("amount", amount.String()).Str("currency", amount.Currency).Msg("deferred credit granted")
}
