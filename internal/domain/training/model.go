package training

import (
	"errors"
	"strings"
)

// Business rule constants
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrNoGroup     = errors.New("training must be associated with a group")
	ErrNoDate      = errors.New("training date must be set")
	ErrBadStatus   = errors.New("status must be 'scheduled', 'completed' or 'cancelled'")
	ErrNoStartTime = errors.New("training start time must be set")
)

// Training is one scheduled session instance for a group.
// Created, edited and deleted only through admin actions.
type Training struct {
	ID              int64
	GroupID         int64
	GroupName       string
	Date            string // YYYY-MM-DD, normalized at the client boundary
	StartTime       string // HH:MM
	DurationMinutes int
	Location        string
	Status          string
	Notes           string
}

// Validate checks if the Training has valid data.
// PRE: Training struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (t *Training) Validate() error {
	if t.GroupID == 0 && strings.TrimSpace(t.GroupName) == "" {
		return ErrNoGroup
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrNoDate
	}
	if strings.TrimSpace(t.StartTime) == "" {
		return ErrNoStartTime
	}
	switch t.Status {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return nil
	}
	return ErrBadStatus
}

// IsCancelled returns true if the session was cancelled.
// INVARIANT: Status field is not mutated
func (t *Training) IsCancelled() bool {
	return t.Status == StatusCancelled
}
