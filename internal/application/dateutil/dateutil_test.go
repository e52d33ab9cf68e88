package dateutil

import (
	"testing"
	"time"
)

// TestToISO_ReversesDisplayDates verifies DD.MM.YYYY is reversed to ISO.
func TestToISO_ReversesDisplayDates(t *testing.T) {
	cases := []struct{ in, want string }{
		{"15.03.2025", "2025-03-15"},
		{"01.01.2024", "2024-01-01"},
		{"2025-03-15", "2025-03-15"},
		{"garbage", "garbage"},
	}
	for _, tc := range cases {
		if got := ToISO(tc.in); got != tc.want {
			t.Fatalf("ToISO(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

// TestParse_AcceptsBothFormats verifies both incoming date shapes parse to the same day.
func TestParse_AcceptsBothFormats(t *testing.T) {
	iso, err := Parse("2025-03-15")
	if err != nil {
		t.Fatalf("iso: %v", err)
	}
	disp, err := Parse("15.03.2025")
	if err != nil {
		t.Fatalf("display: %v", err)
	}
	if !iso.Equal(disp) {
		t.Fatalf("parsed dates differ: %v vs %v", iso, disp)
	}
	if _, err := Parse("15/03/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

// TestMonthBounds verifies first/last day computation including leap February.
func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	if first != "2024-02-01" || last != "2024-02-29" {
		t.Fatalf("bounds=%s..%s want 2024-02-01..2024-02-29", first, last)
	}
	first, last = MonthBounds(2025, time.December)
	if first != "2025-12-01" || last != "2025-12-31" {
		t.Fatalf("bounds=%s..%s want 2025-12-01..2025-12-31", first, last)
	}
}
