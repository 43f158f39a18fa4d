package web

import (
	"context"
	"net/http"
	"strings"

	"visualcart-billing/internal/infra/logging"
)

type ctxKey string

const ctxKeyShop ctxKey = "shop"

// sessionAuth verifies the session token the embedded frontend attaches to
// every API call and stores the authenticated shop domain on the context.
// Handlers never trust a shop name from the query string or body.
func (s *Server) sessionAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		shop, err := s.verifier.Verify(tokenParts[1])
		if err != nil {
			s.log.Debug().Err(err).Msg("session token rejected")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyShop, shop)
		ctx = logging.WithShop(ctx, shop)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// shopFromContext returns the shop domain sessionAuth stored.
func shopFromContext(ctx context.Context) string {
	shop, _ := ctx.Value(ctxKeyShop).(string)
	return shop
}
