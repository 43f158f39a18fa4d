package repository

import (
	"context"

	"visualcart-billing/internal/domain/model"
)

// PromoCodeRepository is the port for the promo catalog. Codes are provisioned
// by the seed tool and toggled via SetActive; the core never deletes them.
type PromoCodeRepository interface {
	Save(ctx context.Context, tx Tx, code *model.PromoCode) error
	// FindByCode looks up a code by its normalized key, active or not.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.PromoCode, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.PromoCode, error)
	SetActive(ctx context.Context, tx Tx, code string, active bool) error
}
