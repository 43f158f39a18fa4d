//go:build !integration

package postgres

import (
	"context"
	"time"

	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerPromoRepo mocks the database repository that the promo decorator wraps.
type mockInnerPromoRepo struct {
	SaveFunc       func(ctx context.Context, tx repository.Tx, code *model.PromoCode) error
	FindByCodeFunc func(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error)
	ListAllFunc    func(ctx context.Context, tx repository.Tx) ([]*model.PromoCode, error)
	SetActiveFunc  func(ctx context.Context, tx repository.Tx, code string, active bool) error
}

func (m *mockInnerPromoRepo) Save(ctx context.Context, tx repository.Tx, code *model.PromoCode) error {
	return m.SaveFunc(ctx, tx, code)
}
func (m *mockInnerPromoRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error) {
	return m.FindByCodeFunc(ctx, tx, code)
}
func (m *mockInnerPromoRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PromoCode, error) {
	return m.ListAllFunc(ctx, tx)
}
func (m *mockInnerPromoRepo) SetActive(ctx context.Context, tx repository.Tx, code string, active bool) error {
	return m.SetActiveFunc(ctx, tx, code, active)
}

// mockRedisClient implements red.RedisClient for decorator tests.
type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errMissing
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }
