package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.PromoCodeRepository = (*promoRepo)(nil)

type promoRepo struct {
	pool *pgxpool.Pool
}

func NewPromoRepo(pool *pgxpool.Pool) *promoRepo {
	return &promoRepo{pool: pool}
}

// Save creates or updates a catalog entry; the seed tool relies on the upsert
// being idempotent.
func (r *promoRepo) Save(ctx context.Context, tx repository.Tx, code *model.PromoCode) error {
	if code == nil || code.Code == "" {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO promo_codes (code, type, discount_percent, is_active, description)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE SET
  type             = EXCLUDED.type,
  discount_percent = EXCLUDED.discount_percent,
  is_active        = EXCLUDED.is_active,
  description      = EXCLUDED.description;`

	_, err := execSQL(ctx, r.pool, tx, q,
		code.Code, string(code.Type), code.DiscountPercent, code.IsActive, code.Description,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *promoRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PromoCode, error) {
	const q = `
SELECT code, type, discount_percent, is_active, description
  FROM promo_codes
 WHERE code = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}

	p := &model.PromoCode{}
	var typ string
	if err := row.Scan(&p.Code, &typ, &p.DiscountPercent, &p.IsActive, &p.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Type = model.PromoType(typ)
	return p, nil
}

func (r *promoRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PromoCode, error) {
	const q = `
SELECT code, type, discount_percent, is_active, description
  FROM promo_codes
 ORDER BY code ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.PromoCode
	for rows.Next() {
		p := &model.PromoCode{}
		var typ string
		if err := rows.Scan(&p.Code, &typ, &p.DiscountPercent, &p.IsActive, &p.Description); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		p.Type = model.PromoType(typ)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *promoRepo) SetActive(ctx context.Context, tx repository.Tx, code string, active bool) error {
	const q = `UPDATE promo_codes SET is_active = $2 WHERE code = $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, code, active)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
