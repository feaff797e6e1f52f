package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session credentials.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the session credential claims shared by the issuer and the
// authorization gate. Role is carried here and nowhere else: authorization
// decisions never trust a role from a request body.
type Claims struct {
	jwt.RegisteredClaims

	// SID identifies the server-side session record, so a credential can be
	// revoked before its expiry.
	SID string `json:"sid,omitempty"`

	// Role is the coarse access level: "admin", "monitor", or "student".
	Role string `json:"role,omitempty"`

	// Email and Name are informational, for display and logging.
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a session credential.
func NewSessionClaims(
	subject, sid, role, email, name string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:   sid,
		Role:  role,
		Email: email,
		Name:  name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
