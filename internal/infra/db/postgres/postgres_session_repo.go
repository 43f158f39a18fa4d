package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"visualcart-billing/internal/domain"
	"visualcart-billing/internal/domain/model"
	"visualcart-billing/internal/domain/ports/repository"
	"visualcart-billing/internal/infra/security"
)

var _ repository.SessionRepository = (*sessionRepo)(nil)

type sessionRepo struct {
	pool *pgxpool.Pool
	// cipher encrypts access tokens at rest; nil means plaintext (dev).
	cipher *security.TokenCipher
}

func NewSessionRepo(pool *pgxpool.Pool, cipher *security.TokenCipher) *sessionRepo {
	return &sessionRepo{pool: pool, cipher: cipher}
}

func (r *sessionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Session) error {
	if s == nil || s.Shop == "" {
		return domain.ErrInvalidArgument
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	sealed, err := r.cipher.Seal(s.AccessToken)
	if err != nil {
		return domain.ErrOperationFailed
	}
	const q = `
INSERT INTO sessions (id, shop, access_token, scope, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  access_token = EXCLUDED.access_token,
  scope        = EXCLUDED.scope,
  expires_at   = EXCLUDED.expires_at;`

	_, err = execSQL(ctx, r.pool, tx, q, s.ID, s.Shop, sealed, s.Scope, s.ExpiresAt, s.CreatedAt)
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

// FindByShop returns the most recent session for a shop.
func (r *sessionRepo) FindByShop(ctx context.Context, tx repository.Tx, shop string) (*model.Session, error) {
	const q = `
SELECT id, shop, access_token, scope, expires_at, created_at
  FROM sessions
 WHERE shop = $1
 ORDER BY created_at DESC
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, shop)
	if err != nil {
		return nil, err
	}

	s := &model.Session{}
	if err := row.Scan(&s.ID, &s.Shop, &s.AccessToken, &s.Scope, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	token, err := r.cipher.Open(s.AccessToken)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	s.AccessToken = token
	return s, nil
}

func (r *sessionRepo) DeleteByShop(ctx context.Context, tx repository.Tx, shop string) error {
	const q = `DELETE FROM sessions WHERE shop = $1;`
	if _, err := execSQL(ctx, r.pool, tx, q, shop); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			return domain.ErrOperationFailed
		}
	}
	return nil
}
