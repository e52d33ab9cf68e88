package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// CertificateReviewGateway defines the backend calls needed by
// ReviewCertificate.
type CertificateReviewGateway interface {
	ApproveCertificate(ctx context.Context, token string, certificateID int64, adminComment string) error
	RejectCertificate(ctx context.Context, token string, certificateID int64, adminComment string) error
}

// ReviewCertificateInput carries input for the review orchestrator.
type ReviewCertificateInput struct {
	Token         string
	CertificateID int64 `validate:"required"`
	Approve       bool
	AdminComment  string
}

// ReviewCertificateDeps holds dependencies for ReviewCertificate.
type ReviewCertificateDeps struct {
	Gateway CertificateReviewGateway
}

var ErrNoCertificateSelected = errors.New("справка не выбрана")

// ExecuteReviewCertificate approves or rejects a submitted certificate.
func ExecuteReviewCertificate(ctx context.Context, input ReviewCertificateInput, deps ReviewCertificateDeps) error {
	if err := validate.Struct(input); err != nil {
		return ErrNoCertificateSelected
	}

	var err error
	if input.Approve {
		err = deps.Gateway.ApproveCertificate(ctx, input.Token, input.CertificateID, input.AdminComment)
	} else {
		err = deps.Gateway.RejectCertificate(ctx, input.Token, input.CertificateID, input.AdminComment)
	}
	if err != nil {
		return err
	}
	slog.Info("certificate_reviewed", "certificate_id", input.CertificateID, "approved", input.Approve)
	return nil
}
