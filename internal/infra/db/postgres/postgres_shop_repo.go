package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/infra/security"
)

// Ensure shopRepo implements repository.ShopAccountRepository
var _ repository.ShopAccountRepository = (*shopRepo)(nil)

type shopRepo struct {
	pool *pgxpool.Pool
	// cipher encrypts access tokens at rest; nil means plaintext (dev).
	cipher *security.TokenCipher
}

func NewShopRepo(pool *pgxpool.Pool, cipher *security.TokenCipher) *shopRepo {
	return &shopRepo{pool: pool, cipher: cipher}
}

func (r *shopRepo) Find(ctx context.Context, tx repository.Tx, shopDomain string) (*model.ShopAccount, error) {
	const q = `
SELECT shop_domain, access_token, subscription_active, plan, pending_promo_code, credit_applied, created_at, updated_at
  FROM shops
 WHERE shop_domain = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, shopDomain)
	if err != nil {
		return nil, err
	}

	s := &model.ShopAccount{}
	var plan string
	var pending *string
	if err := row.Scan(&s.ShopDomain, &s.AccessToken, &s.SubscriptionActive, &plan, &pending, &s.CreditApplied, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Plan = model.Plan(plan)
	if pending != nil {
		s.PendingPromoCode = *pending
	}
	token, err := r.cipher.Open(s.AccessToken)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	s.AccessToken = token
	return s, nil
}

// Upsert creates the row with defaults when absent and applies the patch in a
// single statement otherwise. Unset patch fields map to COALESCE no-ops so a
// concurrent writer's columns are never overwritten blindly.
func (r *shopRepo) Upsert(ctx context.Context, tx repository.Tx, shopDomain string, patch repository.ShopPatch) error {
	if shopDomain == "" {
		return domain.ErrInvalidArgument
	}

	tokenArg := patch.AccessToken
	if tokenArg != nil {
		sealed, err := r.cipher.Seal(*tokenArg)
		if err != nil {
			return domain.ErrOperationFailed
		}
		tokenArg = &sealed
	}

	var planArg *string
	if patch.Plan != nil {
		p := string(*patch.Plan)
		planArg = &p
	}
	pendingSet := patch.PendingPromoCode != nil
	pendingVal := ""
	if pendingSet {
		pendingVal = *patch.PendingPromoCode
	}

	const q = `
INSERT INTO shops (shop_domain, access_token, subscription_active, plan, pending_promo_code, credit_applied, created_at, updated_at)
VALUES (
  $1,
  COALESCE($2, ''),
  COALESCE($3, FALSE),
  COALESCE($4, 'free'),
  CASE WHEN $7 THEN NULLIF($5, '') ELSE NULL END,
  COALESCE($6, FALSE),
  NOW(), NOW()
)
ON CONFLICT (shop_domain) DO UPDATE SET
  access_token        = COALESCE($2, shops.access_token),
  subscription_active = COALESCE($3, shops.subscription_active),
  plan                = COALESCE($4, shops.plan),
  pending_promo_code  = CASE WHEN $7 THEN NULLIF($5, '') ELSE shops.pending_promo_code END,
  credit_applied      = COALESCE($6, shops.credit_applied),
  updated_at          = NOW();`

	_, err := execSQL(ctx, r.pool, tx, q,
		shopDomain, tokenArg, patch.SubscriptionActive, planArg, pendingVal, patch.CreditApplied, pendingSet,
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

// ApplyCredit performs the credit-grant transition as one conditional update.
// The WHERE clause is the compare-and-set: it only fires while the observed
// code is still pending, so a second concurrent runner affects zero rows.
func (r *shopRepo) ApplyCredit(ctx context.Context, tx repository.Tx, shopDomain, pendingCode string) error {
	const q = `
UPDATE shops
   SET credit_applied = TRUE, pending_promo_code = NULL, updated_at = NOW()
 WHERE shop_domain = $1 AND pending_promo_code = $2 AND credit_applied = FALSE;`

	cmd, err := execSQL(ctx, r.pool, tx, q, shopDomain, pendingCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCreditAlreadyApplied
	}
	return nil
}

func (r *shopRepo) Delete(ctx context.Context, tx repository.Tx, shopDomain string) error {
	// Absent rows are fine: uninstall webhooks may arrive more than once.
	const q = `DELETE FROM shops WHERE shop_domain = $1;`
	if _, err := execSQL(ctx, r.pool, tx, q, shopDomain); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}
