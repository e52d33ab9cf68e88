package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"academy/internal/application/dateutil"
	"academy/internal/domain/attendance"
	"academy/internal/domain/certificate"
	"academy/internal/domain/child"
	"academy/internal/domain/comment"
	"academy/internal/domain/invoice"
	"academy/internal/domain/training"
)

// ParentChildren fetches the children linked to the logged-in parent,
// normalized to a slice regardless of the backend's response shape.
func (c *Client) ParentChildren(ctx context.Context, token string) ([]child.Child, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/parent/child-info/", nil)
	if err != nil {
		return nil, err
	}
	return decodeChildList(raw)
}

// ParentAttendance fetches the child's attendance for a month.
// PRE: month is 1..12 when non-zero; zero means backend default
func (c *Client) ParentAttendance(ctx context.Context, token string, month, year int) ([]attendance.Record, error) {
	params := url.Values{}
	if month > 0 {
		params.Set("month", strconv.Itoa(month))
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	path := "/api/parent/attendance/"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := c.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeAttendanceList(raw)
}

type trainingPayload struct {
	ID              int64           `json:"id"`
	Group           json.RawMessage `json:"group"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	DurationMinutes int             `json:"duration_minutes"`
	Location        string          `json:"location"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
}

func (p trainingPayload) toTraining() training.Training {
	t := training.Training{
		ID:              p.ID,
		Date:            dateutil.ToISO(p.Date),
		StartTime:       p.Time,
		DurationMinutes: p.DurationMinutes,
		Location:        p.Location,
		Status:          p.Status,
		Notes:           p.Notes,
	}
	if t.Status == "" {
		t.Status = training.StatusScheduled
	}
	if len(p.Group) == 0 {
		return t
	}
	var ref groupRef
	if err := json.Unmarshal(p.Group, &ref); err == nil {
		t.GroupID = ref.ID
		t.GroupName = ref.Name
		return t
	}
	var name string
	if err := json.Unmarshal(p.Group, &name); err == nil {
		t.GroupName = name
	}
	return t
}

// NextTraining fetches the child's next scheduled session.
// POST: The boolean is false when nothing is scheduled
func (c *Client) NextTraining(ctx context.Context, token string) (training.Training, bool, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/parent/next-training/", nil)
	if err != nil {
		return training.Training{}, false, err
	}
	var payload struct {
		Training *trainingPayload `json:"training"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return training.Training{}, false, &APIError{Message: "некорректный ответ сервера"}
	}
	if payload.Training == nil {
		return training.Training{}, false, nil
	}
	return payload.Training.toTraining(), true, nil
}

// ParentComments lists the trainer's comments about the child.
func (c *Client) ParentComments(ctx context.Context, token string) ([]comment.Comment, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/parent/comments/", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Comments []commentPayload `json:"comments"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	comments := make([]comment.Comment, 0, len(payload.Comments))
	for _, cp := range payload.Comments {
		comments = append(comments, cp.toComment())
	}
	return comments, nil
}

// MarkCommentsRead clears the unread-comment counter for a child.
// Best-effort from the caller's perspective.
func (c *Client) MarkCommentsRead(ctx context.Context, token string, childID int64) error {
	body := map[string]int64{"child_id": childID}
	_, err := c.do(ctx, token, http.MethodPost, "/api/parent/comments/mark-read/", body)
	return err
}

// ParentCertificates lists the child's submitted certificates.
func (c *Client) ParentCertificates(ctx context.Context, token string) ([]certificate.Certificate, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/parent/medical-certificates/", nil)
	if err != nil {
		return nil, err
	}
	return decodeCertificateList(raw)
}

// CertificateUpload carries a certificate or refund-request submission.
// A non-empty AbsenceReason makes it a refund request.
type CertificateUpload struct {
	DateFrom      string // ISO YYYY-MM-DD
	DateTo        string // ISO YYYY-MM-DD
	Note          string
	AbsenceReason string
	FileName      string // empty when no file attached
	File          []byte
}

// UploadCertificate submits a certificate via multipart form encoding.
// PRE: The date range has passed client-side validation
func (c *Client) UploadCertificate(ctx context.Context, token string, upload CertificateUpload) error {
	fields := map[string]string{
		"date_from": upload.DateFrom,
		"date_to":   upload.DateTo,
	}
	if upload.Note != "" {
		fields["note"] = upload.Note
	}
	if upload.AbsenceReason != "" {
		fields["absence_reason"] = upload.AbsenceReason
	}
	_, err := c.doMultipart(ctx, token, "/api/parent/medical-certificates/", fields, "certificate_file", upload.FileName, upload.File)
	return err
}

// PaymentCalculation is the backend's authoritative monthly figure
// set, displayed verbatim.
type PaymentCalculation struct {
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	TotalTrainings    int    `json:"total_trainings"`
	AttendedTrainings int    `json:"attended_trainings"`
	MissedTrainings   int    `json:"missed_trainings"`
	ExcusedAbsences   int    `json:"excused_absences"`
	UnexcusedAbsences int    `json:"unexcused_absences"`
	CostPerLesson     string `json:"cost_per_lesson"`
	AmountToPay       string `json:"amount_to_pay"`
}

// GetPaymentCalculation fetches the current month's payment figures.
func (c *Client) GetPaymentCalculation(ctx context.Context, token string) (PaymentCalculation, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/parent/payment-calculation/", nil)
	if err != nil {
		return PaymentCalculation{}, err
	}
	var calc PaymentCalculation
	if err := json.Unmarshal(raw, &calc); err != nil {
		return PaymentCalculation{}, &APIError{Message: "некорректный ответ сервера"}
	}
	return calc, nil
}

type invoicePayload struct {
	ID                int64  `json:"id"`
	ChildID           int64  `json:"child_id"`
	ChildName         string `json:"child_name"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	TotalTrainings    int    `json:"total_trainings"`
	BillableTrainings int    `json:"billable_trainings"`
	ConfirmedAbsences int    `json:"confirmed_absences"`
	PricePerTraining  string `json:"price_per_training"`
	TotalAmount       string `json:"total_amount"`
	DueDate           string `json:"due_date"`
	PaidAt            string `json:"paid_at"`
	Status            string `json:"status"`
	ReceiptStatus     string `json:"receipt_status"`
	ParsedAmount      string `json:"parsed_amount"`
	ParsedBank        string `json:"parsed_bank"`
	AmountMatch       *bool  `json:"amount_match"`
}

func (p invoicePayload) toInvoice() invoice.Invoice {
	receiptStatus := p.ReceiptStatus
	if receiptStatus == "" {
		receiptStatus = invoice.ReceiptNone
	}
	return invoice.Invoice{
		ID:                p.ID,
		ChildID:           p.ChildID,
		ChildName:         p.ChildName,
		Month:             p.Month,
		Year:              p.Year,
		TotalTrainings:    p.TotalTrainings,
		BillableTrainings: p.BillableTrainings,
		ConfirmedAbsences: p.ConfirmedAbsences,
		PricePerTraining:  p.PricePerTraining,
		TotalAmount:       p.TotalAmount,
		DueDate:           dateutil.ToISO(p.DueDate),
		PaidAt:            p.PaidAt,
		Status:            p.Status,
		ReceiptStatus:     receiptStatus,
		ParsedAmount:      p.ParsedAmount,
		ParsedBank:        p.ParsedBank,
		AmountMatch:       p.AmountMatch,
	}
}

// InvoiceList is the parent's invoice set plus the backend's own
// aggregate figures. The aggregates are never recomputed locally.
type InvoiceList struct {
	Invoices          []invoice.Invoice
	UnpaidMonths      int
	TotalUnpaidAmount string
}

// Invoices fetches the parent's invoices with aggregates.
func (c *Client) Invoices(ctx context.Context, token string) (InvoiceList, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/parent/invoices/", nil)
	if err != nil {
		return InvoiceList{}, err
	}
	var payload struct {
		Invoices          []invoicePayload `json:"invoices"`
		UnpaidMonths      int              `json:"unpaid_months"`
		TotalUnpaidAmount string           `json:"total_unpaid_amount"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return InvoiceList{}, &APIError{Message: "некорректный ответ сервера"}
	}
	list := InvoiceList{
		UnpaidMonths:      payload.UnpaidMonths,
		TotalUnpaidAmount: payload.TotalUnpaidAmount,
	}
	for _, ip := range payload.Invoices {
		list.Invoices = append(list.Invoices, ip.toInvoice())
	}
	return list, nil
}

// UploadReceipt attaches a payment receipt to an invoice via
// multipart form encoding.
func (c *Client) UploadReceipt(ctx context.Context, token string, invoiceID int64, fileName string, file []byte) error {
	path := fmt.Sprintf("/api/parent/invoices/%d/receipt/", invoiceID)
	_, err := c.doMultipart(ctx, token, path, nil, "receipt_file", fileName, file)
	return err
}
