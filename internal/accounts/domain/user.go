package domain

import "time"

type User struct {
	ID             string
	Name           string
	Email          string // stored lowercase; uniqueness is case-insensitive
	PasswordHash   string // argon2 encoded
	Role           Role
	EmailVerified  bool
	Approved       bool
	Locked         bool
	FailedAttempts int
	LastLoginAt    *time.Time // nil until the first fully authenticated login
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanAuthenticate reports whether the account's lifecycle flags permit a
// session to be issued. The OTP requirement is checked separately.
func (u *User) CanAuthenticate() bool {
	return u.EmailVerified && u.Approved && !u.Locked
}

// RequiresOTP reports whether this user must pass an OTP challenge before a
// session is issued. First-time logins always require one.
func (u *User) RequiresOTP(always bool) bool {
	return always || u.LastLoginAt == nil
}
