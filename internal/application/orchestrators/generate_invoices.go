package orchestrators

import (
	"context"
	"log/slog"
)

// InvoiceGenerationGateway defines the backend calls needed by
// GenerateInvoices.
type InvoiceGenerationGateway interface {
	GenerateInvoices(ctx context.Context, token string) (int, error)
}

// GenerateInvoicesInput carries input for the generation orchestrator.
type GenerateInvoicesInput struct {
	Token string
}

// GenerateInvoicesDeps holds dependencies for GenerateInvoices.
type GenerateInvoicesDeps struct {
	Gateway InvoiceGenerationGateway
}

// ExecuteGenerateInvoices asks the backend to issue the month's
// invoices. The backend owns the billing math; this only triggers it.
// POST: Returns the number of invoices created
func ExecuteGenerateInvoices(ctx context.Context, input GenerateInvoicesInput, deps GenerateInvoicesDeps) (int, error) {
	count, err := deps.Gateway.GenerateInvoices(ctx, input.Token)
	if err != nil {
		return 0, err
	}
	slog.Info("invoices_generated", "created", count)
	return count, nil
}
