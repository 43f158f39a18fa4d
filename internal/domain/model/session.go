package model

import (
	"time"

	"visualcart-billing/internal/domain"

	"github.com/google/uuid"
)

// Session stores the offline OAuth token the auth collaborator negotiated for
// a shop. The core only reads it to call the provider and deletes it wholesale
// on uninstall.
type Session struct {
	ID          string
	Shop        string
	AccessToken string
	Scope       string
	ExpiresAt   *time.Time // nil for offline tokens
	CreatedAt   time.Time
}

func NewSession(id, shop, accessToken, scope string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if shop == "" || accessToken == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Session{
		ID:          id,
		Shop:        shop,
		AccessToken: accessToken,
		Scope:       scope,
		CreatedAt:   time.Now(),
	}, nil
}
