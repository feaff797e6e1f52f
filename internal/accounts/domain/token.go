package domain

import "time"

// VerificationToken is a single-use email verification token. Only the
// SHA-256 fingerprint of the opaque token is stored; the raw value is handed
// to the notifier once and never persisted.
type VerificationToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

func (t *VerificationToken) Consumed() bool { return t.ConsumedAt != nil }

func (t *VerificationToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }
