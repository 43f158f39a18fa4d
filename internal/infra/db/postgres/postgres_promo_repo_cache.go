package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/infra/metrics"
	red "visualcart-billing/internal/infra/redis"
)

var _ repository.PromoCodeRepository = (*promoRepoCacheDecorator)(nil)

// promoRepoCacheDecorator caches catalog lookups. The catalog is tiny and
// read-heavy (every subscribe resolves a code), so a short TTL plus
// invalidation on writes is enough.
type promoRepoCacheDecorator struct {
	inner repository.PromoCodeRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPromoRepoCacheDecorator(inner repository.PromoCodeRepository, cache red.RedisClient, ttl time.Duration) repository.PromoCodeRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &promoRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *promoRepoCacheDecorator) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error) {
	key := fmt.Sprintf("promo:%s", code)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("promo", "hit")
		var p model.PromoCode
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	}

	metrics.IncCacheRequest("promo", "miss")
	p, err := d.inner.FindByCode(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if p != nil {
		b, _ := json.Marshal(p)
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return p, nil
}

// Write operations invalidate the cache.
func (d *promoRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, code *model.PromoCode) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("promo:%s", code.Code), "promos:all")
	return d.inner.Save(ctx, tx, code)
}

func (d *promoRepoCacheDecorator) SetActive(ctx context.Context, tx repository.Tx, code string, active bool) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("promo:%s", code), "promos:all")
	return d.inner.SetActive(ctx, tx, code, active)
}

func (d *promoRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PromoCode, error) {
	const key = "promos:all"
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("promo_list", "hit")
		var ps []*model.PromoCode
		if json.Unmarshal([]byte(val), &ps) == nil {
			return ps, nil
		}
	}

	metrics.IncCacheRequest("promo_list", "miss")
	ps, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(ps) > 0 {
		b, _ := json.Marshal(ps)
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return ps, nil
}
