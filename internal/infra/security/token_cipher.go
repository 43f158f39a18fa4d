// File: internal/infra/security/token_cipher.go
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// TokenCipher encrypts provider access tokens before they reach Postgres.
// AES-GCM with a random nonce per token; stored format is
// base64(nonce || ciphertext). A nil *TokenCipher is a valid pass-through,
// used in dev setups without a configured key.
type TokenCipher struct {
	gcm cipher.AEAD
}

// NewTokenCipher constructs an AES-GCM cipher. Key must be 16, 24, or 32
// bytes (AES-128/192/256).
func NewTokenCipher(key string) (*TokenCipher, error) {
	k := []byte(key)
	n := len(k)
	if n != 16 && n != 24 && n != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes; got %d", n)
	}
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return &TokenCipher{gcm: gcm}, nil
}

// Seal encrypts a token for storage. Empty tokens pass through unchanged so
// "no token yet" rows stay queryable as empty strings.
func (c *TokenCipher) Seal(token string) (string, error) {
	if c == nil || token == "" {
		return token, nil
	}
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}
	ct := c.gcm.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Open decrypts a stored token.
func (c *TokenCipher) Open(stored string) (string, error) {
	if c == nil || stored == "" {
		return stored, nil
	}
	data, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	ns := c.gcm.NonceSize()
	if len(data) < ns {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ct := data[:ns], data[ns:]
	pt, err := c.gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("gcm open: %w", err)
	}
	return string(pt), nil
}
