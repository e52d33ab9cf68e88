package child

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName = errors.New("child name cannot be empty")
)

// Child holds the backend's record of a child, flattened to one
// canonical shape (nested group objects are resolved at the API
// client boundary).
type Child struct {
	ID                 int64
	FullName           string
	BirthDate          string // YYYY-MM-DD
	ParentName         string
	PhoneNumber        string
	GroupID            int64
	GroupName          string
	KindergartenNumber string
	UnreadComments     int
	IsActive           bool
}

// Validate checks if the Child has valid data.
// PRE: Child struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: UnreadComments is never negative
func (c *Child) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrEmptyName
	}
	if c.UnreadComments < 0 {
		return errors.New("unread comment count cannot be negative")
	}
	return nil
}

// HasGroup returns true if the child is assigned to a resolvable group.
// The unread-badge computation falls back to counting all schedule
// notifications when this is false.
func (c *Child) HasGroup() bool {
	return strings.TrimSpace(c.GroupName) != ""
}
