package shopify

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenVerifier validates embedded-app session tokens: HS256 JWTs
// signed with the app secret, whose dest claim carries the shop origin and
// whose audience is the app's API key.
type SessionTokenVerifier struct {
	apiKey    string
	apiSecret []byte
}

func NewSessionTokenVerifier(apiKey, apiSecret string) *SessionTokenVerifier {
	return &SessionTokenVerifier{apiKey: apiKey, apiSecret: []byte(apiSecret)}
}

type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token and returns the shop domain.
func (v *SessionTokenVerifier) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.apiSecret, nil
	}, jwt.WithAudience(v.apiKey))
	if err != nil || !token.Valid {
		return "", errors.New("invalid session token")
	}

	shop := strings.TrimPrefix(claims.Dest, "https://")
	shop = strings.TrimSuffix(shop, "/")
	if shop == "" {
		return "", errors.New("session token missing dest claim")
	}
	return shop, nil
}
