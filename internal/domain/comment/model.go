package comment

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxTextLength = 2000
)

// Domain errors
var (
	ErrNoChild   = errors.New("comment must be associated with a child")
	ErrEmptyText = errors.New("comment text cannot be empty")
	ErrTooLong   = errors.New("comment text cannot exceed 2000 characters")
)

// Comment is a trainer's note about a child, shown on the parent
// dashboard. Unread counts are tracked per child by the backend.
type Comment struct {
	ID          int64
	ChildID     int64
	Date        string
	Text        string
	TrainerName string
}

// Validate checks if the Comment has valid data.
// PRE: Comment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Comment) Validate() error {
	if c.ChildID == 0 {
		return ErrNoChild
	}
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyText
	}
	if len(c.Text) > MaxTextLength {
		return ErrTooLong
	}
	return nil
}
