//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/usecase"
)

type webhookFixture struct {
	shops      *MockShopRepo
	sessions   *MockSessionRepo
	storefront *MockStorefront
	tm         *MockTxManager
	uc         usecase.WebhookUseCase
}

func newWebhookFixture() *webhookFixture {
	f := &webhookFixture{
		shops:      NewMockShopRepo(),
		sessions:   NewMockSessionRepo(),
		storefront: &MockStorefront{},
		tm:         &MockTxManager{},
	}
	f.uc = usecase.NewWebhookUseCase(f.tm, f.shops, f.sessions, f.storefront, nopLogger())
	return f
}

func (f *webhookFixture) seedInstalled() {
	f.shops.Shops[testShop] = &model.ShopAccount{
		ShopDomain:         testShop,
		AccessToken:        testToken,
		SubscriptionActive: true,
		Plan:               model.PlanPro,
	}
	f.sessions.Sessions[testShop] = &model.Session{Shop: testShop, AccessToken: testToken}
}

func subscriptionEvent(status string) model.WebhookEvent {
	return model.WebhookEvent{
		Topic:   model.TopicSubscriptionsUpdate,
		Shop:    testShop,
		Payload: []byte(`{"app_subscription":{"name":"VisualCart Pro","status":"` + status + `"}}`),
	}
}

func TestWebhookUC_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("UninstallPurgesShopAndSessions", func(t *testing.T) {
		f := newWebhookFixture()
		f.seedInstalled()
		err := f.uc.Handle(ctx, model.WebhookEvent{Topic: model.TopicAppUninstalled, Shop: testShop})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if _, ok := f.shops.Shops[testShop]; ok {
			t.Fatalf("shop row survived uninstall")
		}
		if _, ok := f.sessions.Sessions[testShop]; ok {
			t.Fatalf("session survived uninstall")
		}
	})

	t.Run("UninstallForUnknownShopAcks", func(t *testing.T) {
		f := newWebhookFixture()
		err := f.uc.Handle(ctx, model.WebhookEvent{Topic: model.TopicAppUninstalled, Shop: testShop})
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
	})

	t.Run("ActiveUpdateRecordsProAndPushesFlag", func(t *testing.T) {
		f := newWebhookFixture()
		f.seedInstalled()
		if err := f.uc.Handle(ctx, subscriptionEvent("ACTIVE")); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		acct := f.shops.Shops[testShop]
		if !acct.SubscriptionActive || acct.Plan != model.PlanPro {
			t.Fatalf("active update not recorded: %+v", acct)
		}
		if len(f.storefront.Calls) != 1 || !f.storefront.Calls[0] {
			t.Fatalf("flag calls = %v, want single true", f.storefront.Calls)
		}
	})

	t.Run("CancelledUpdateDowngradesAndClearsFlag", func(t *testing.T) {
		f := newWebhookFixture()
		f.seedInstalled()
		if err := f.uc.Handle(ctx, subscriptionEvent("CANCELLED")); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		acct := f.shops.Shops[testShop]
		if acct.SubscriptionActive || acct.Plan != model.PlanFree {
			t.Fatalf("cancellation not recorded: %+v", acct)
		}
		if len(f.storefront.Calls) != 1 || f.storefront.Calls[0] {
			t.Fatalf("flag calls = %v, want single false", f.storefront.Calls)
		}
	})

	t.Run("UpdateCreatesRowForUnknownShop", func(t *testing.T) {
		f := newWebhookFixture()
		f.sessions.Sessions[testShop] = &model.Session{Shop: testShop, AccessToken: testToken}
		if err := f.uc.Handle(ctx, subscriptionEvent("ACTIVE")); err != nil {
			t.Fatalf("Handle: %v", err)
		}
		acct := f.shops.Shops[testShop]
		if acct == nil || !acct.SubscriptionActive {
			t.Fatalf("row not created from webhook: %+v", acct)
		}
	})

	t.Run("FlagPushFailureStillAcks", func(t *testing.T) {
		f := newWebhookFixture()
		f.seedInstalled()
		f.storefront.SetFeatureActiveFunc = func(ctx context.Context, shop, token string, active bool) error {
			return errors.New("metafield write failed")
		}
		if err := f.uc.Handle(ctx, subscriptionEvent("ACTIVE")); err != nil {
			t.Fatalf("flag failure must not fail the delivery: %v", err)
		}
		if !f.shops.Shops[testShop].SubscriptionActive {
			t.Fatalf("stored state must be updated before the flag push")
		}
	})

	t.Run("MalformedUpdatePayloadFails", func(t *testing.T) {
		f := newWebhookFixture()
		err := f.uc.Handle(ctx, model.WebhookEvent{
			Topic:   model.TopicSubscriptionsUpdate,
			Shop:    testShop,
			Payload: []byte(`{not json`),
		})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("ComplianceTopicsAck", func(t *testing.T) {
		f := newWebhookFixture()
		for _, topic := range []string{model.TopicCustomersDataRequest, model.TopicCustomersRedact, model.TopicShopRedact} {
			if err := f.uc.Handle(ctx, model.WebhookEvent{Topic: topic, Shop: testShop}); err != nil {
				t.Fatalf("Handle(%s): %v", topic, err)
			}
		}
	})

	t.Run("UnknownTopic", func(t *testing.T) {
		f := newWebhookFixture()
		err := f.uc.Handle(ctx, model.WebhookEvent{Topic: "ORDERS_CREATE", Shop: testShop})
		if !errors.Is(err, domain.ErrUnknownWebhookTopic) {
			t.Fatalf("err = %v, want ErrUnknownWebhookTopic", err)
		}
	})
}
