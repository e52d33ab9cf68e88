package orchestrators

import (
	"context"

	"academy/internal/adapters/backend"
	"academy/internal/application/dateutil"
	"academy/internal/domain/certificate"
)

// CertificateUploader defines the backend calls needed by
// SubmitCertificate.
type CertificateUploader interface {
	UploadCertificate(ctx context.Context, token string, upload backend.CertificateUpload) error
}

// SubmitCertificateInput carries input for the certificate submission
// orchestrator. A non-empty AbsenceReason makes it a refund request.
type SubmitCertificateInput struct {
	Token         string
	DateFrom      string `validate:"required"`
	DateTo        string `validate:"required"`
	Note          string
	AbsenceReason string
	FileName      string
	File          []byte
}

// SubmitCertificateDeps holds dependencies for SubmitCertificate.
type SubmitCertificateDeps struct {
	Gateway CertificateUploader
}

// ExecuteSubmitCertificate validates the date range and uploads the
// certificate.
// PRE: DateFrom and DateTo are ISO or DD.MM.YYYY strings
// POST: A range failing validation blocks the upload; no network call
// is made
func ExecuteSubmitCertificate(ctx context.Context, input SubmitCertificateInput, deps SubmitCertificateDeps) error {
	if err := validate.Struct(input); err != nil {
		return certificate.ErrMissingDates
	}
	from, err := dateutil.Parse(input.DateFrom)
	if err != nil {
		return certificate.ErrMissingDates
	}
	to, err := dateutil.Parse(input.DateTo)
	if err != nil {
		return certificate.ErrMissingDates
	}
	if err := certificate.ValidateRange(from, to); err != nil {
		return err
	}

	return deps.Gateway.UploadCertificate(ctx, input.Token, backend.CertificateUpload{
		DateFrom:      from.Format(dateutil.ISO),
		DateTo:        to.Format(dateutil.ISO),
		Note:          input.Note,
		AbsenceReason: input.AbsenceReason,
		FileName:      input.FileName,
		File:          input.File,
	})
}
