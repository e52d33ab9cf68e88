package identity

import (
	"strings"
	"time"
)

// Role constants as issued by the backend.
const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleParent  = "parent"
)

// UserIdentity holds the authenticated user as reported by the backend.
// The backend owns the account record; this is a per-session snapshot.
type UserIdentity struct {
	Username    string
	DisplayName string
	Role        string
	RoleDisplay string
	LoginTime   time.Time
}

// IsKnownRole returns true if the role maps to a dashboard.
// An unknown role renders a fallback page rather than failing.
// INVARIANT: UserIdentity fields are not mutated
func (u UserIdentity) IsKnownRole() bool {
	switch u.Role {
	case RoleAdmin, RoleTrainer, RoleParent:
		return true
	}
	return false
}

// Name returns the best available display string for the user.
// POST: Returns a non-empty string when Username is non-empty
func (u UserIdentity) Name() string {
	if strings.TrimSpace(u.DisplayName) != "" {
		return u.DisplayName
	}
	return u.Username
}
