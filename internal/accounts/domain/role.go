package domain

import "errors"

// Role is the coarse access level carried on every user record and session
// credential. Anything finer-grained than these three is out of scope for the
// platform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMonitor Role = "monitor"
	RoleStudent Role = "student"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a role string coming from a request body or the store.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMonitor, RoleStudent:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// SelfRegisterable reports whether an unauthenticated registration may claim
// this role. Admin accounts are only ever created through bootstrap or by an
// existing admin.
func (r Role) SelfRegisterable() bool {
	return r == RoleMonitor || r == RoleStudent
}

// AutoApproved reports whether accounts of this role skip the manual approval
// step after email verification.
func (r Role) AutoApproved() bool {
	return r == RoleAdmin
}

func (r Role) String() string { return string(r) }
