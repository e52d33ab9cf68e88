package attendance

import (
	"errors"
	"strings"
)

// Table symbols for the month view. One cell per (child, date).
const (
	SymbolAttended    = "+"
	SymbolCertificate = "С"
	SymbolNone        = ""
)

// A free-text absence reason containing this substring is treated as
// certificate-backed. Matching is case-insensitive.
const certificateMarker = "справка"

// Domain errors
var (
	ErrNoChild = errors.New("attendance must be associated with a child")
	ErrNoDate  = errors.New("attendance date must be set")
)

// Record is one trainer-entered attendance mark. The backend assumes
// one record per (child, date); uniqueness is not enforced locally.
type Record struct {
	ID       int64
	ChildID  int64
	GroupID  int64
	Date     string // YYYY-MM-DD
	Attended bool
	Reason   string // free text, empty when attended
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Record) Validate() error {
	if r.ChildID == 0 {
		return ErrNoChild
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrNoDate
	}
	return nil
}

// CertificateBacked returns true if the absence reason references a
// medical certificate.
// INVARIANT: Record fields are not mutated
func (r *Record) CertificateBacked() bool {
	return strings.Contains(strings.ToLower(r.Reason), certificateMarker)
}

// Symbol returns the table cell symbol for this record.
// POST: Result is one of SymbolAttended, SymbolCertificate, SymbolNone
func (r *Record) Symbol() string {
	if r.Attended {
		return SymbolAttended
	}
	if r.CertificateBacked() {
		return SymbolCertificate
	}
	return SymbolNone
}
