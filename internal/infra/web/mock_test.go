//go:build !integration

package web_test

import (
	"context"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/usecase"
)

type mockSubscribeUC struct {
	SubscribeFunc func(ctx context.Context, shop, accessToken, rawPromoCode string) (string, error)
}

var _ usecase.SubscribeUseCase = (*mockSubscribeUC)(nil)

func (m *mockSubscribeUC) Subscribe(ctx context.Context, shop, accessToken, rawPromoCode string) (string, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, shop, accessToken, rawPromoCode)
	}
	return "https://billing.example/confirm", nil
}

type mockEntitlementUC struct {
	StatusFunc   func(ctx context.Context, shop string) (*usecase.StatusResult, error)
	ActivateFunc func(ctx context.Context, shop string) error
}

var _ usecase.EntitlementUseCase = (*mockEntitlementUC)(nil)

func (m *mockEntitlementUC) Status(ctx context.Context, shop string) (*usecase.StatusResult, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, shop)
	}
	return &usecase.StatusResult{Shop: shop, Plan: model.PlanFree}, nil
}

func (m *mockEntitlementUC) Activate(ctx context.Context, shop string) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, shop)
	}
	return nil
}

type mockWebhookUC struct {
	Events     []model.WebhookEvent
	HandleFunc func(ctx context.Context, event model.WebhookEvent) error
}

var _ usecase.WebhookUseCase = (*mockWebhookUC)(nil)

func (m *mockWebhookUC) Handle(ctx context.Context, event model.WebhookEvent) error {
	m.Events = append(m.Events, event)
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, event)
	}
	return nil
}

// mockSessionRepo holds a single session per shop, enough for token lookup.
type mockSessionRepo struct {
	Sessions map[string]*model.Session
}

var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func (m *mockSessionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Session) error {
	m.Sessions[s.Shop] = s
	return nil
}

func (m *mockSessionRepo) FindByShop(ctx context.Context, tx repository.Tx, shop string) (*model.Session, error) {
	s, ok := m.Sessions[shop]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepo) DeleteByShop(ctx context.Context, tx repository.Tx, shop string) error {
	delete(m.Sessions, shop)
	return nil
}

type mockShopRepo struct {
	Shops map[string]*model.ShopAccount
}

var _ repository.ShopAccountRepository = (*mockShopRepo)(nil)

func (m *mockShopRepo) Find(ctx context.Context, tx repository.Tx, shopDomain string) (*model.ShopAccount, error) {
	acct, ok := m.Shops[shopDomain]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return acct, nil
}

func (m *mockShopRepo) Upsert(ctx context.Context, tx repository.Tx, shopDomain string, patch repository.ShopPatch) error {
	return nil
}

func (m *mockShopRepo) ApplyCredit(ctx context.Context, tx repository.Tx, shopDomain, pendingCode string) error {
	return nil
}

func (m *mockShopRepo) Delete(ctx context.Context, tx repository.Tx, shopDomain string) error {
	delete(m.Shops, shopDomain)
	return nil
}
