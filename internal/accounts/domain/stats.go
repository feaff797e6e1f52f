package domain

// Stats is the admin dashboard overview of account lifecycle states.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	PendingApprovals int `json:"pendingApprovals"`
	LockedUsers      int `json:"lockedUsers"`
	UnverifiedEmails int `json:"unverifiedEmails"`
}
