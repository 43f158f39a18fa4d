// File: internal/usecase/promo_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
)

// Compile-time check
var _ PromoResolver = (*promoResolver)(nil)

// PromoResolver maps raw promo text to a validated plan selection and an
// optional deferred-credit intent. It has no side effects and may be called
// any number of times for the same input.
type PromoResolver interface {
	Resolve(ctx context.Context, rawCode string) (*model.PlanSelection, error)
}

type promoResolver struct {
	promos repository.PromoCodeRepository
}

func NewPromoResolver(promos repository.PromoCodeRepository) *promoResolver {
	return &promoResolver{promos: promos}
}

// Resolve decides which billing plan to request. Only two promo shapes exist:
// (RECURRING, 50) selects the discounted recurring plan, (ONE_TIME, 90) keeps
// the standard plan and defers a credit. Everything else is rejected rather
// than silently ignored.
func (r *promoResolver) Resolve(ctx context.Context, rawCode string) (*model.PlanSelection, error) {
	if strings.TrimSpace(rawCode) == "" {
		return &model.PlanSelection{PlanToUse: model.MonthlyPlan}, nil
	}

	code := model.NormalizePromoCode(rawCode)
	promo, err := r.promos.FindByCode(ctx, repository.NoTX, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidPromoCode
		}
		return nil, err
	}
	if !promo.IsActive {
		return nil, domain.ErrInactivePromoCode
	}

	switch {
	case promo.Type == model.PromoTypeRecurring && promo.DiscountPercent == 50:
		return &model.PlanSelection{PlanToUse: model.DiscountedMonthlyPlan}, nil
	case promo.Type == model.PromoTypeOneTime && promo.DiscountPercent == 90:
		return &model.PlanSelection{
			PlanToUse:      model.MonthlyPlan,
			DeferredCredit: &model.DeferredCredit{Code: promo.Code},
		}, nil
	default:
		return nil, domain.ErrUnsupportedPromoCombination
	}
}
