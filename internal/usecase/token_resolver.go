// File: internal/usecase/token_resolver.go
package usecase

import (
	"context"
	"fmt"

	"visualcart-billing/internal/domain/ports/repository"
)

// TokenResolver looks up the Admin API access token for a shop. The account
// row is authoritative once a subscribe has run; a shop that only completed
// the install still has its token in the session store.
type TokenResolver struct {
	shops    repository.ShopAccountRepository
	sessions repository.SessionRepository
}

func NewTokenResolver(shops repository.ShopAccountRepository, sessions repository.SessionRepository) *TokenResolver {
	return &TokenResolver{shops: shops, sessions: sessions}
}

// AccessToken prefers the stored account token and falls back to the most
// recent session for the shop.
func (t *TokenResolver) AccessToken(ctx context.Context, shop string) (string, error) {
	if acct, err := t.shops.Find(ctx, repository.NoTX, shop); err == nil && acct.AccessToken != "" {
		return acct.AccessToken, nil
	}
	sess, err := t.sessions.FindByShop(ctx, repository.NoTX, shop)
	if err != nil {
		return "", fmt.Errorf("no access token for shop %s: %w", shop, err)
	}
	return sess.AccessToken, nil
}
