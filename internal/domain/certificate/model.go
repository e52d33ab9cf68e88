package certificate

import (
	"errors"
	"time"
)

// Business rule constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	// MaxSpanDays bounds the inclusive date range of one certificate.
	MaxSpanDays = 365
)

// Validation errors. These block submission before any network call.
var (
	ErrEndBeforeStart = errors.New("дата окончания не может быть раньше даты начала")
	ErrSpanTooLong    = errors.New("период отсутствия не может превышать 365 дней")
	ErrMissingDates   = errors.New("укажите даты начала и окончания")
)

// Certificate is parent-submitted medical documentation justifying an
// absence, subject to admin approval. A non-empty AbsenceReason
// reclassifies the record as a refund request.
type Certificate struct {
	ID            int64
	ChildID       int64
	ChildName     string
	DateFrom      string // YYYY-MM-DD
	DateTo        string // YYYY-MM-DD, inclusive
	Status        string
	StatusDisplay string
	Note          string
	AbsenceReason string
	FileName      string
	FileURL       string
	AdminComment  string
	UploadedAt    string
}

// IsRefundRequest returns true if the record is a recalculation
// request rather than a plain sickness certificate.
// INVARIANT: Certificate fields are not mutated
func (c *Certificate) IsRefundRequest() bool {
	return c.AbsenceReason != ""
}

// IsApproved returns true if an admin has confirmed the certificate.
func (c *Certificate) IsApproved() bool {
	return c.Status == StatusApproved
}

// Covers returns true if the given ISO date falls inside the
// certificate's inclusive range. Malformed dates never match.
func (c *Certificate) Covers(date string) bool {
	return c.DateFrom != "" && c.DateTo != "" && date >= c.DateFrom && date <= c.DateTo
}

// ValidateRange checks the date-range sanity rules enforced before
// submission.
// PRE: from and to are parsed dates
// POST: Returns nil only when from <= to and the span is within MaxSpanDays
func ValidateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return ErrMissingDates
	}
	if to.Before(from) {
		return ErrEndBeforeStart
	}
	if int(to.Sub(from).Hours()/24) > MaxSpanDays {
		return ErrSpanTooLong
	}
	return nil
}
