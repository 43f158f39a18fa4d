//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/adapter"
	"visualcart-billing/internal/domain/ports/repository"
	red "visualcart-billing/internal/infra/redis"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Repositories
// =============================

// ---- Mock ShopAccountRepository ----

// MockShopRepo is an in-memory store with the same conditional-update
// semantics as the Postgres implementation. Func fields override behavior
// per test.
type MockShopRepo struct {
	mu    sync.Mutex
	Shops map[string]*model.ShopAccount

	FindFunc        func(ctx context.Context, tx repository.Tx, shopDomain string) (*model.ShopAccount, error)
	UpsertFunc      func(ctx context.Context, tx repository.Tx, shopDomain string, patch repository.ShopPatch) error
	ApplyCreditFunc func(ctx context.Context, tx repository.Tx, shopDomain, pendingCode string) error
	DeleteFunc      func(ctx context.Context, tx repository.Tx, shopDomain string) error
}

var _ repository.ShopAccountRepository = (*MockShopRepo)(nil)

func NewMockShopRepo() *MockShopRepo {
	return &MockShopRepo{Shops: map[string]*model.ShopAccount{}}
}

func (m *MockShopRepo) Find(ctx context.Context, tx repository.Tx, shopDomain string) (*model.ShopAccount, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tx, shopDomain)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.Shops[shopDomain]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *acct
	return &cp, nil
}

func (m *MockShopRepo) Upsert(ctx context.Context, tx repository.Tx, shopDomain string, patch repository.ShopPatch) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, shopDomain, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.Shops[shopDomain]
	if !ok {
		acct = &model.ShopAccount{ShopDomain: shopDomain, Plan: model.PlanFree, CreatedAt: time.Now()}
		m.Shops[shopDomain] = acct
	}
	if patch.AccessToken != nil {
		acct.AccessToken = *patch.AccessToken
	}
	if patch.SubscriptionActive != nil {
		acct.SubscriptionActive = *patch.SubscriptionActive
	}
	if patch.Plan != nil {
		acct.Plan = *patch.Plan
	}
	if patch.PendingPromoCode != nil {
		acct.PendingPromoCode = *patch.PendingPromoCode
	}
	if patch.CreditApplied != nil {
		acct.CreditApplied = *patch.CreditApplied
	}
	acct.UpdatedAt = time.Now()
	return nil
}

func (m *MockShopRepo) ApplyCredit(ctx context.Context, tx repository.Tx, shopDomain, pendingCode string) error {
	if m.ApplyCreditFunc != nil {
		return m.ApplyCreditFunc(ctx, tx, shopDomain, pendingCode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.Shops[shopDomain]
	if !ok || acct.CreditApplied || acct.PendingPromoCode != pendingCode {
		return domain.ErrCreditAlreadyApplied
	}
	acct.CreditApplied = true
	acct.PendingPromoCode = ""
	acct.UpdatedAt = time.Now()
	return nil
}

func (m *MockShopRepo) Delete(ctx context.Context, tx repository.Tx, shopDomain string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, shopDomain)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Shops, shopDomain)
	return nil
}

// ---- Mock PromoCodeRepository ----

type MockPromoRepo struct {
	mu     sync.Mutex
	Promos map[string]*model.PromoCode

	FindByCodeFunc func(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error)
}

var _ repository.PromoCodeRepository = (*MockPromoRepo)(nil)

func NewMockPromoRepo(codes ...*model.PromoCode) *MockPromoRepo {
	m := &MockPromoRepo{Promos: map[string]*model.PromoCode{}}
	for _, c := range codes {
		m.Promos[c.Code] = c
	}
	return m
}

func (m *MockPromoRepo) Save(ctx context.Context, tx repository.Tx, code *model.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.Promos[code.Code] = &cp
	return nil
}

func (m *MockPromoRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Promos[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPromoRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.PromoCode, 0, len(m.Promos))
	for _, p := range m.Promos {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPromoRepo) SetActive(ctx context.Context, tx repository.Tx, code string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Promos[code]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = active
	return nil
}

// ---- Mock SessionRepository ----

type MockSessionRepo struct {
	mu       sync.Mutex
	Sessions map[string]*model.Session
}

var _ repository.SessionRepository = (*MockSessionRepo)(nil)

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{Sessions: map[string]*model.Session{}}
}

func (m *MockSessionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.Sessions[s.Shop] = &cp
	return nil
}

func (m *MockSessionRepo) FindByShop(ctx context.Context, tx repository.Tx, shop string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[shop]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSessionRepo) DeleteByShop(ctx context.Context, tx repository.Tx, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, shop)
	return nil
}

// =============================
// Adapters
// =============================

// ---- Mock BillingGateway ----

type MockBillingGateway struct {
	mu             sync.Mutex
	CreditCalls    int
	RequireCalls   int
	LastCreditAmt  model.Money
	LastCreditDesc string

	CheckFunc        func(ctx context.Context, shop, accessToken string, planCandidates []string) (adapter.BillingStatus, error)
	RequireFunc      func(ctx context.Context, shop, accessToken, plan, returnURL string) (string, error)
	CreateCreditFunc func(ctx context.Context, shop, accessToken, description string, amount model.Money) (string, error)
}

var _ adapter.BillingGateway = (*MockBillingGateway)(nil)

func (m *MockBillingGateway) Name() string { return "mock" }

func (m *MockBillingGateway) Check(ctx context.Context, shop, accessToken string, planCandidates []string) (adapter.BillingStatus, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, shop, accessToken, planCandidates)
	}
	return adapter.BillingStatus{}, nil
}

func (m *MockBillingGateway) Require(ctx context.Context, shop, accessToken, plan, returnURL string) (string, error) {
	m.mu.Lock()
	m.RequireCalls++
	m.mu.Unlock()
	if m.RequireFunc != nil {
		return m.RequireFunc(ctx, shop, accessToken, plan, returnURL)
	}
	return "https://billing.example/confirm", nil
}

func (m *MockBillingGateway) CreateCredit(ctx context.Context, shop, accessToken, description string, amount model.Money) (string, error) {
	m.mu.Lock()
	m.CreditCalls++
	m.LastCreditAmt = amount
	m.LastCreditDesc = description
	m.mu.Unlock()
	if m.CreateCreditFunc != nil {
		return m.CreateCreditFunc(ctx, shop, accessToken, description, amount)
	}
	return "gid://credit/" + uuid.NewString(), nil
}

// ---- Mock StorefrontAPI ----

type MockStorefront struct {
	mu    sync.Mutex
	Calls []bool // active values in call order

	SetFeatureActiveFunc func(ctx context.Context, shop, accessToken string, active bool) error
}

var _ adapter.StorefrontAPI = (*MockStorefront)(nil)

func (m *MockStorefront) SetFeatureActive(ctx context.Context, shop, accessToken string, active bool) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, active)
	m.mu.Unlock()
	if m.SetFeatureActiveFunc != nil {
		return m.SetFeatureActiveFunc(ctx, shop, accessToken, active)
	}
	return nil
}

// =============================
// Infra
// =============================

// ---- Mock TransactionManager ----

// MockTxManager runs the callback with a nil handle; the in-memory mocks
// ignore tx anyway.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Mock Locker ----

// MockLocker mirrors redis SETNX semantics in memory.
type MockLocker struct {
	mu    sync.Mutex
	held  map[string]string
	Locks int // successful acquisitions
}

var _ red.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", domain.ErrLockNotAcquired
	}
	token := uuid.NewString()
	l.held[key] = token
	l.Locks++
	return token, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}
