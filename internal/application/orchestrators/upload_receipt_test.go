package orchestrators

import (
	"context"
	"errors"
	"testing"

	"academy/internal/adapters/backend"
	"academy/internal/domain/invoice"
)

type mockReceiptGateway struct {
	uploadErr    error
	uploadCalls  int
	refreshCalls int
	refreshed    backend.InvoiceList
}

func (m *mockReceiptGateway) UploadReceipt(_ context.Context, _ string, _ int64, _ string, _ []byte) error {
	m.uploadCalls++
	return m.uploadErr
}

func (m *mockReceiptGateway) Invoices(_ context.Context, _ string) (backend.InvoiceList, error) {
	m.refreshCalls++
	return m.refreshed, nil
}

func TestExecuteUploadReceipt_RefreshesOnSuccess(t *testing.T) {
	gw := &mockReceiptGateway{refreshed: backend.InvoiceList{
		Invoices: []invoice.Invoice{{ID: 1, ReceiptStatus: invoice.ReceiptPending}},
	}}

	list, err := ExecuteUploadReceipt(context.Background(), UploadReceiptInput{
		Token:     "tok",
		InvoiceID: 1,
		FileName:  "receipt.jpg",
		File:      []byte("jpeg"),
	}, UploadReceiptDeps{Gateway: gw})

	if err != nil {
		t.Fatalf("ExecuteUploadReceipt: %v", err)
	}
	if gw.refreshCalls != 1 {
		t.Errorf("invoice list refreshed %d times, want 1", gw.refreshCalls)
	}
	if len(list.Invoices) != 1 || list.Invoices[0].ReceiptStatus != invoice.ReceiptPending {
		t.Errorf("refreshed list = %+v, want backend's verdict", list)
	}
}

func TestExecuteUploadReceipt_FailureSkipsRefresh(t *testing.T) {
	wantErr := &backend.APIError{StatusCode: 400, Message: "файл слишком большой"}
	gw := &mockReceiptGateway{uploadErr: wantErr}

	_, err := ExecuteUploadReceipt(context.Background(), UploadReceiptInput{
		Token:     "tok",
		InvoiceID: 1,
		FileName:  "receipt.jpg",
	}, UploadReceiptDeps{Gateway: gw})

	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the upload error surfaced", err)
	}
	if gw.refreshCalls != 0 {
		t.Errorf("list refreshed %d times after failure, want 0", gw.refreshCalls)
	}
}

func TestExecuteUploadReceipt_NoFileBlocksUpload(t *testing.T) {
	gw := &mockReceiptGateway{}

	_, err := ExecuteUploadReceipt(context.Background(), UploadReceiptInput{
		Token:     "tok",
		InvoiceID: 1,
	}, UploadReceiptDeps{Gateway: gw})

	if !errors.Is(err, ErrNoReceiptFile) {
		t.Fatalf("err = %v, want ErrNoReceiptFile", err)
	}
	if gw.uploadCalls != 0 {
		t.Errorf("upload called %d times without a file, want 0", gw.uploadCalls)
	}
}
