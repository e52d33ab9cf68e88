package orchestrators

import (
	"context"
	"errors"
	"testing"

	"academy/internal/adapters/backend"
	"academy/internal/domain/certificate"
)

type mockCertificateUploader struct {
	calls   int
	lastUp  backend.CertificateUpload
	failErr error
}

func (m *mockCertificateUploader) UploadCertificate(_ context.Context, _ string, up backend.CertificateUpload) error {
	m.calls++
	m.lastUp = up
	return m.failErr
}

func TestExecuteSubmitCertificate_EndBeforeStartBlocksUpload(t *testing.T) {
	gw := &mockCertificateUploader{}
	err := ExecuteSubmitCertificate(context.Background(), SubmitCertificateInput{
		Token:    "tok",
		DateFrom: "2025-03-10",
		DateTo:   "2025-03-05",
	}, SubmitCertificateDeps{Gateway: gw})

	if !errors.Is(err, certificate.ErrEndBeforeStart) {
		t.Fatalf("err = %v, want ErrEndBeforeStart", err)
	}
	if gw.calls != 0 {
		t.Errorf("upload endpoint called %d times, want 0", gw.calls)
	}
}

func TestExecuteSubmitCertificate_SpanTooLongBlocksUpload(t *testing.T) {
	gw := &mockCertificateUploader{}
	err := ExecuteSubmitCertificate(context.Background(), SubmitCertificateInput{
		Token:    "tok",
		DateFrom: "2024-01-01",
		DateTo:   "2025-06-01",
	}, SubmitCertificateDeps{Gateway: gw})

	if !errors.Is(err, certificate.ErrSpanTooLong) {
		t.Fatalf("err = %v, want ErrSpanTooLong", err)
	}
	if gw.calls != 0 {
		t.Errorf("upload endpoint called %d times, want 0", gw.calls)
	}
}

func TestExecuteSubmitCertificate_MissingDatesBlockUpload(t *testing.T) {
	gw := &mockCertificateUploader{}
	err := ExecuteSubmitCertificate(context.Background(), SubmitCertificateInput{
		Token:    "tok",
		DateFrom: "2025-03-01",
	}, SubmitCertificateDeps{Gateway: gw})

	if !errors.Is(err, certificate.ErrMissingDates) {
		t.Fatalf("err = %v, want ErrMissingDates", err)
	}
	if gw.calls != 0 {
		t.Errorf("upload endpoint called %d times, want 0", gw.calls)
	}
}

func TestExecuteSubmitCertificate_AcceptsDisplayFormatDates(t *testing.T) {
	gw := &mockCertificateUploader{}
	err := ExecuteSubmitCertificate(context.Background(), SubmitCertificateInput{
		Token:         "tok",
		DateFrom:      "05.03.2025",
		DateTo:        "12.03.2025",
		Note:          "ОРВИ",
		AbsenceReason: "прошу пересчитать оплату",
		FileName:      "spravka.pdf",
		File:          []byte("%PDF"),
	}, SubmitCertificateDeps{Gateway: gw})

	if err != nil {
		t.Fatalf("ExecuteSubmitCertificate: %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("upload endpoint called %d times, want 1", gw.calls)
	}
	if gw.lastUp.DateFrom != "2025-03-05" || gw.lastUp.DateTo != "2025-03-12" {
		t.Errorf("dates sent as %q..%q, want ISO", gw.lastUp.DateFrom, gw.lastUp.DateTo)
	}
	if gw.lastUp.AbsenceReason == "" {
		t.Error("absence reason dropped; refund requests depend on it")
	}
}
