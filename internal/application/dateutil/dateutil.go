// Package dateutil holds the date formats the backend speaks.
// Bulk schedule creation sends ISO YYYY-MM-DD; several read endpoints
// return display dates as DD.MM.YYYY that must be reversed to ISO
// before re-parsing. Both incoming formats are supported here.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISO is the wire format for dates sent to the backend.
	ISO = "2006-01-02"
	// Display is the Russian display format some endpoints return.
	Display = "02.01.2006"
)

// ToISO normalizes a date string to ISO form. DD.MM.YYYY input is
// reversed; anything else is returned unchanged.
// POST: ISO input passes through untouched
func ToISO(s string) string {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// Parse accepts either ISO or display form.
// POST: Returns an error for any other shape
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(ISO, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(Display, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", s)
}

// FormatDisplay renders a time as DD.MM.YYYY.
func FormatDisplay(t time.Time) string {
	return t.Format(Display)
}

// MonthBounds returns the first and last day of a month as ISO strings.
// PRE: month is 1..12
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(ISO), last.Format(ISO)
}
