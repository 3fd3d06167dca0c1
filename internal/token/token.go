// Package token issues and verifies the signed session tokens. A token is
// only honored while it is the one recorded in the session store for its
// principal, which is what enforces the single-session policy.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prasowlabs/moi-kanakku/internal/session"
)

// DefaultTTL matches the legacy 30-day session lifetime.
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token invalid")
	// ErrStale means the token verified cryptographically but is no longer
	// the current one for its principal (a newer login overwrote it, or the
	// session was invalidated).
	ErrStale = errors.New("session expired")
)

type Service struct {
	store  session.Store
	secret []byte
	ttl    time.Duration
}

func NewService(store session.Store, secret []byte, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, secret: secret, ttl: ttl}
}

// Issue signs a fresh token for the principal and records it as the sole
// valid one, silently invalidating whatever token was stored before.
func (s *Service) Issue(ctx context.Context, principalID int64) (string, error) {
	if principalID <= 0 {
		return "", fmt.Errorf("principal id is required to generate a token")
	}
	// jti makes every issued token distinct even when two logins land in
	// the same second; without it the store overwrite is a no-op and the
	// prior token never goes stale.
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": principalID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
		"jti":    hex.EncodeToString(nonce),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, principalID, signed, s.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Invalidate drops the stored token without issuing a new one (logout,
// account deletion, or the explicit pre-step of a login).
func (s *Service) Invalidate(ctx context.Context, principalID int64) error {
	if principalID <= 0 {
		return nil
	}
	return s.store.Delete(ctx, principalID)
}

// Current returns the stored token for a principal, if any.
func (s *Service) Current(ctx context.Context, principalID int64) (string, bool) {
	tok, ok, err := s.store.Get(ctx, principalID)
	if err != nil {
		return "", false
	}
	return tok, ok
}

// Verify checks signature and expiry, then cross-checks the session store.
// Expiry is checked first: a token past its TTL reports ErrExpired no matter
// what the store holds.
func (s *Service) Verify(ctx context.Context, raw string) (int64, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrMalformed
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrMalformed
	}
	// JSON numbers decode as float64; normalize before the store lookup.
	idClaim, ok := claims["userId"].(float64)
	if !ok || idClaim <= 0 {
		return 0, ErrMalformed
	}
	principalID := int64(idClaim)

	stored, ok, err := s.store.Get(ctx, principalID)
	if err != nil {
		return 0, err
	}
	if !ok || stored != raw {
		return 0, ErrStale
	}
	return principalID, nil
}
