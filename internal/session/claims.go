package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is a best-effort view of the bearer token's JWT claims.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim lies in the past. Tokens
// without an exp claim never count as expired here.
func (ti TokenInfo) Expired(now time.Time) bool {
	return !ti.ExpiresAt.IsZero() && ti.ExpiresAt.Before(now)
}

// TokenInfo decodes the stored token without verifying its signature. Token
// validity is the backend's call on every API request; this exists purely so
// the CLI can show "session expires in 12 days" without a round trip.
func (s *Store) TokenInfo() (*TokenInfo, error) {
	token := s.CurrentToken()
	if token == "" {
		return nil, fmt.Errorf("no session token")
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
