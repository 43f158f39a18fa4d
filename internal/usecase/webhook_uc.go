// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/adapter"
	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/infra/logging"
	"visualcart-billing/internal/infra/metrics"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// WebhookUseCase reconciles stored entitlement state with lifecycle events
// pushed by the platform. All effects complete before the delivery is acked.
type WebhookUseCase interface {
	Handle(ctx context.Context, event model.WebhookEvent) error
}

type webhookUC struct {
	txManager  repository.TransactionManager
	shops      repository.ShopAccountRepository
	sessions   repository.SessionRepository
	tokens     *TokenResolver
	storefront adapter.StorefrontAPI
	log        *zerolog.Logger
}

func NewWebhookUseCase(
	txManager repository.TransactionManager,
	shops repository.ShopAccountRepository,
	sessions repository.SessionRepository,
	storefront adapter.StorefrontAPI,
	log *zerolog.Logger,
) *webhookUC {
	return &webhookUC{
		txManager:  txManager,
		shops:      shops,
		sessions:   sessions,
		tokens:     NewTokenResolver(shops, sessions),
		storefront: storefront,
		log:        log,
	}
}

func (u *webhookUC) Handle(ctx context.Context, event model.WebhookEvent) error {
	ctx = logging.WithShop(logging.WithTopic(ctx, event.Topic), event.Shop)

	var err error
	switch event.Topic {
	case model.TopicAppUninstalled:
		err = u.handleUninstall(ctx, event.Shop)
	case model.TopicSubscriptionsUpdate:
		err = u.handleSubscriptionUpdate(ctx, event)
	case model.TopicCustomersDataRequest, model.TopicCustomersRedact, model.TopicShopRedact:
		// Compliance topics require only an acknowledgment; we store no
		// customer data to report or redact.
		logging.With(ctx, u.log).Info().Msg("compliance webhook acknowledged")
	default:
		metrics.IncWebhook(event.Topic, "unknown")
		return fmt.Errorf("%w: %s", domain.ErrUnknownWebhookTopic, event.Topic)
	}

	if err != nil {
		metrics.IncWebhook(event.Topic, "failed")
		return err
	}
	metrics.IncWebhook(event.Topic, "processed")
	return nil
}

// handleUninstall removes sessions and the entitlement row in one transaction
// so a re-install starts from a clean slate.
func (u *webhookUC) handleUninstall(ctx context.Context, shop string) error {
	err := u.txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.sessions.DeleteByShop(ctx, tx, shop); err != nil {
			return err
		}
		return u.shops.Delete(ctx, tx, shop)
	})
	if err != nil {
		return fmt.Errorf("uninstall cleanup for %s: %w", shop, err)
	}
	u.log.Info().Str("shop", shop).Msg("shop data purged on uninstall")
	return nil
}

func (u *webhookUC) handleSubscriptionUpdate(ctx context.Context, event model.WebhookEvent) error {
	var payload model.SubscriptionUpdatePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("%w: subscription update payload: %v", domain.ErrInvalidArgument, err)
	}

	isActive := payload.AppSubscription.Status == model.SubscriptionStatusActive
	plan := model.PlanForActive(isActive)

	if err := u.shops.Upsert(ctx, repository.NoTX, event.Shop, repository.ShopPatch{
		SubscriptionActive: &isActive,
		Plan:               &plan,
	}); err != nil {
		return fmt.Errorf("subscription update for %s: %w", event.Shop, err)
	}

	// Push the flag both ways so a cancellation downgrades the storefront.
	// Needs a token; on the rare update arriving before any session exists
	// the flag push is skipped and the next activation repairs it.
	token, err := u.tokens.AccessToken(ctx, event.Shop)
	if err != nil {
		u.log.Warn().Err(err).Str("shop", event.Shop).Msg("no token for feature flag push")
		return nil
	}
	if err := u.storefront.SetFeatureActive(ctx, event.Shop, token, isActive); err != nil {
		// Stored state is already correct; the flag converges on next
		// activation or update.
		u.log.Warn().Err(err).Str("shop", event.Shop).Bool("active", isActive).Msg("feature flag push failed")
	}

	u.log.Info().Str("shop", event.Shop).Bool("active", isActive).
		Str("status", payload.AppSubscription.Status).Msg("subscription state synchronized")
	return nil
}
