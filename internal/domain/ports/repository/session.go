package repository

import (
	"context"

	"visualcart-billing/internal/domain/model"
)

// SessionRepository stores the offline OAuth tokens the auth collaborator
// writes. DeleteByShop removes every session for a shop (uninstall cleanup)
// and tolerates already-absent rows.
type SessionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Session) error
	FindByShop(ctx context.Context, tx Tx, shop string) (*model.Session, error)
	DeleteByShop(ctx context.Context, tx Tx, shop string) error
}
