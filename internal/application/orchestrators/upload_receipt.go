package orchestrators

import (
	"context"
	"errors"

	"academy/internal/adapters/backend"
)

// ReceiptGateway defines the backend calls needed by UploadReceipt.
type ReceiptGateway interface {
	UploadReceipt(ctx context.Context, token string, invoiceID int64, fileName string, file []byte) error
	Invoices(ctx context.Context, token string) (backend.InvoiceList, error)
}

// UploadReceiptInput carries input for the receipt upload orchestrator.
type UploadReceiptInput struct {
	Token     string
	InvoiceID int64  `validate:"required"`
	FileName  string `validate:"required"`
	File      []byte
}

// UploadReceiptDeps holds dependencies for UploadReceipt.
type UploadReceiptDeps struct {
	Gateway ReceiptGateway
}

var ErrNoReceiptFile = errors.New("выберите файл квитанции")

// ExecuteUploadReceipt attaches a receipt to an invoice and refreshes
// the invoice list so the view shows the backend's verdict.
// POST: On failure the caller keeps the selected file so the user can
// retry without re-selecting
func ExecuteUploadReceipt(ctx context.Context, input UploadReceiptInput, deps UploadReceiptDeps) (backend.InvoiceList, error) {
	if err := validate.Struct(input); err != nil {
		return backend.InvoiceList{}, ErrNoReceiptFile
	}
	if err := deps.Gateway.UploadReceipt(ctx, input.Token, input.InvoiceID, input.FileName, input.File); err != nil {
		return backend.InvoiceList{}, err
	}
	return deps.Gateway.Invoices(ctx, input.Token)
}
