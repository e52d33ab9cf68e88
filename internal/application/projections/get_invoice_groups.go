package projections

import (
	"context"

	"academy/internal/adapters/backend"
	"academy/internal/domain/invoice"
)

// InvoiceGroupsGateway defines the backend calls needed by the invoice
// projection.
type InvoiceGroupsGateway interface {
	Invoices(ctx context.Context, token string) (backend.InvoiceList, error)
}

// GetInvoiceGroupsQuery carries input for the invoice projection.
type GetInvoiceGroupsQuery struct {
	Token string
}

// GetInvoiceGroupsDeps holds dependencies for the invoice projection.
type GetInvoiceGroupsDeps struct {
	Gateway InvoiceGroupsGateway
}

// ChildInvoiceGroup is one child's invoices in first-seen order.
type ChildInvoiceGroup struct {
	ChildID   int64
	ChildName string
	Invoices  []invoice.Invoice
}

// InvoiceGroupsResult carries the output of the invoice projection.
// The aggregate figures come from the backend and are displayed
// verbatim, never recomputed locally.
type InvoiceGroupsResult struct {
	Groups            []ChildInvoiceGroup
	UnpaidMonths      int
	TotalUnpaidAmount string
}

// QueryInvoiceGroups fetches the parent's invoices and groups them by
// child.
// POST: children appear in the order their first invoice appears
func QueryInvoiceGroups(ctx context.Context, query GetInvoiceGroupsQuery, deps GetInvoiceGroupsDeps) (InvoiceGroupsResult, error) {
	list, err := deps.Gateway.Invoices(ctx, query.Token)
	if err != nil {
		return InvoiceGroupsResult{}, err
	}
	return InvoiceGroupsResult{
		Groups:            GroupInvoicesByChild(list.Invoices),
		UnpaidMonths:      list.UnpaidMonths,
		TotalUnpaidAmount: list.TotalUnpaidAmount,
	}, nil
}

// GroupInvoicesByChild groups a flat invoice list by child ID,
// preserving the first-seen order of children and the invoice order
// within each child.
func GroupInvoicesByChild(invoices []invoice.Invoice) []ChildInvoiceGroup {
	var groups []ChildInvoiceGroup
	indexByChild := make(map[int64]int)
	for _, inv := range invoices {
		i, ok := indexByChild[inv.ChildID]
		if !ok {
			i = len(groups)
			indexByChild[inv.ChildID] = i
			groups = append(groups, ChildInvoiceGroup{
				ChildID:   inv.ChildID,
				ChildName: inv.ChildName,
			})
		}
		groups[i].Invoices = append(groups[i].Invoices, inv)
	}
	return groups
}
