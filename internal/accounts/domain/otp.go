package domain

import "time"

// OTPChallenge is a pending one-time-password challenge created during login.
// The emailed code is stored only as a fingerprint. AttemptsRemaining
// decrements on every wrong code; at zero the challenge is dead and the user
// must log in again to get a fresh one.
type OTPChallenge struct {
	ID                string
	UserID            string
	CodeHash          string
	ExpiresAt         time.Time
	ConsumedAt        *time.Time
	AttemptsRemaining int
	CreatedAt         time.Time
}

func (c *OTPChallenge) Consumed() bool { return c.ConsumedAt != nil }

func (c *OTPChallenge) Expired(now time.Time) bool { return now.After(c.ExpiresAt) }

func (c *OTPChallenge) Exhausted() bool { return c.AttemptsRemaining <= 0 }
