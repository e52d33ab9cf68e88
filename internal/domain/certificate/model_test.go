package certificate

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// TestValidateRange_EndBeforeStart verifies reversed ranges are rejected.
func TestValidateRange_EndBeforeStart(t *testing.T) {
	if err := ValidateRange(day("2025-03-10"), day("2025-03-05")); err != ErrEndBeforeStart {
		t.Fatalf("err=%v want ErrEndBeforeStart", err)
	}
}

// TestValidateRange_SpanTooLong verifies ranges over 365 days are rejected.
func TestValidateRange_SpanTooLong(t *testing.T) {
	if err := ValidateRange(day("2024-01-01"), day("2025-06-01")); err != ErrSpanTooLong {
		t.Fatalf("err=%v want ErrSpanTooLong", err)
	}
}

// TestValidateRange_AcceptsBoundaries verifies same-day and exactly-365-day ranges pass.
func TestValidateRange_AcceptsBoundaries(t *testing.T) {
	if err := ValidateRange(day("2025-03-10"), day("2025-03-10")); err != nil {
		t.Fatalf("same day: %v", err)
	}
	if err := ValidateRange(day("2024-01-01"), day("2024-12-31")); err != nil {
		t.Fatalf("365 days: %v", err)
	}
}

// TestIsRefundRequest verifies the absence-reason reclassification.
func TestIsRefundRequest(t *testing.T) {
	c := Certificate{AbsenceReason: "отпуск"}
	if !c.IsRefundRequest() {
		t.Fatal("expected refund request")
	}
	c = Certificate{Note: "болезнь"}
	if c.IsRefundRequest() {
		t.Fatal("plain certificate misclassified as refund request")
	}
}

// TestCovers verifies inclusive range membership.
func TestCovers(t *testing.T) {
	c := Certificate{DateFrom: "2025-03-05", DateTo: "2025-03-10"}
	for _, d := range []string{"2025-03-05", "2025-03-07", "2025-03-10"} {
		if !c.Covers(d) {
			t.Fatalf("Covers(%s)=false want true", d)
		}
	}
	for _, d := range []string{"2025-03-04", "2025-03-11", ""} {
		if c.Covers(d) {
			t.Fatalf("Covers(%s)=true want false", d)
		}
	}
}
