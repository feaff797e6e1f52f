package domain

import "time"

// Session is the server-side record of an issued credential. The credential
// itself is a signed JWT; this row exists so sessions can be revoked by id
// (password change, account deletion, admin lock).
type Session struct {
	ID        string // JWT "sid" claim
	UserID    string
	Role      Role
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (s *Session) Revoked() bool { return s.RevokedAt != nil }

func (s *Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// AuthResult is what a login-flow operation hands back to the transport
// layer. Exactly one of Token or the Requires* flags is meaningful.
type AuthResult struct {
	Token                     string
	User                      User
	RequiresEmailVerification bool
	RequiresApproval          bool
	RequiresOTP               bool
}

// VerificationStatus is the lifecycle snapshot clients poll while waiting for
// verification or approval.
type VerificationStatus struct {
	EmailVerified bool `json:"emailVerified"`
	Approved      bool `json:"approved"`
	RequiresOTP   bool `json:"requiresOTP"`
	IsLocked      bool `json:"isLocked"`
}
