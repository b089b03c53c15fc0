package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure, expiry included.
// Verification fails closed.
var ErrInvalidToken = errors.New("invalid token")

// TokenHelper issues and validates signed, time-limited session tokens
// carrying the user identity as the subject claim.
type TokenHelper struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenHelper creates a token helper with the given HMAC secret and token
// lifetime.
func NewTokenHelper(secret string, ttl time.Duration) *TokenHelper {
	return &TokenHelper{secret: []byte(secret), ttl: ttl}
}

// Sign produces a signed token for the user, expiring after the configured
// lifetime.
func (h *TokenHelper) Sign(userID uint) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// Verify validates signature and expiry and returns the embedded user id.
// Any failure, including an expired token, yields ErrInvalidToken.
func (h *TokenHelper) Verify(token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
