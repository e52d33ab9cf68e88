package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"academy/internal/application/dateutil"
	"academy/internal/domain/attendance"
	"academy/internal/domain/certificate"
	"academy/internal/domain/child"
	"academy/internal/domain/training"
)

type certificatePayload struct {
	ID            int64  `json:"id"`
	ChildID       int64  `json:"child_id"`
	ChildName     string `json:"child_name"`
	DateFrom      string `json:"date_from"`
	DateTo        string `json:"date_to"`
	Status        string `json:"status"`
	StatusDisplay string `json:"status_display"`
	Note          string `json:"note"`
	AbsenceReason string `json:"absence_reason"`
	FileName      string `json:"file_name"`
	FileURL       string `json:"file_url"`
	AdminComment  string `json:"admin_comment"`
	UploadedAt    string `json:"uploaded_at"`
}

func (p certificatePayload) toCertificate() certificate.Certificate {
	return certificate.Certificate{
		ID:            p.ID,
		ChildID:       p.ChildID,
		ChildName:     p.ChildName,
		DateFrom:      dateutil.ToISO(p.DateFrom),
		DateTo:        dateutil.ToISO(p.DateTo),
		Status:        p.Status,
		StatusDisplay: p.StatusDisplay,
		Note:          p.Note,
		AbsenceReason: p.AbsenceReason,
		FileName:      p.FileName,
		FileURL:       p.FileURL,
		AdminComment:  p.AdminComment,
		UploadedAt:    p.UploadedAt,
	}
}

func decodeCertificateList(raw json.RawMessage) ([]certificate.Certificate, error) {
	// This endpoint returns a bare array.
	var payloads []certificatePayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		// Older backend builds wrap the list.
		var wrapped struct {
			Certificates []certificatePayload `json:"certificates"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, &APIError{Message: "некорректный ответ сервера"}
		}
		payloads = wrapped.Certificates
	}
	certs := make([]certificate.Certificate, 0, len(payloads))
	for _, p := range payloads {
		certs = append(certs, p.toCertificate())
	}
	return certs, nil
}

// MedicalCertificates lists every submitted certificate for review.
func (c *Client) MedicalCertificates(ctx context.Context, token string) ([]certificate.Certificate, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/admin/medical-certificates/", nil)
	if err != nil {
		return nil, err
	}
	return decodeCertificateList(raw)
}

// ApproveCertificate confirms a certificate, optionally with a comment.
func (c *Client) ApproveCertificate(ctx context.Context, token string, certificateID int64, adminComment string) error {
	body := map[string]string{"admin_comment": adminComment}
	_, err := c.do(ctx, token, http.MethodPost, fmt.Sprintf("/api/admin/medical-certificates/%d/approve/", certificateID), body)
	return err
}

// RejectCertificate declines a certificate, optionally with a comment.
func (c *Client) RejectCertificate(ctx context.Context, token string, certificateID int64, adminComment string) error {
	body := map[string]string{"admin_comment": adminComment}
	_, err := c.do(ctx, token, http.MethodPost, fmt.Sprintf("/api/admin/medical-certificates/%d/reject/", certificateID), body)
	return err
}

// ScheduleGroups lists kindergartens and groups for schedule editing.
func (c *Client) ScheduleGroups(ctx context.Context, token string) ([]Kindergarten, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/admin/schedule/", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Kindergartens []kindergartenPayload `json:"kindergartens"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	return toKindergartens(payload.Kindergartens), nil
}

type trainingBody struct {
	GroupID         int64  `json:"group_id"`
	Date            string `json:"date"` // ISO YYYY-MM-DD
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Location        string `json:"location,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// CreateTraining creates a single scheduled session.
func (c *Client) CreateTraining(ctx context.Context, token string, t training.Training) error {
	body := trainingBody{
		GroupID:         t.GroupID,
		Date:            t.Date,
		Time:            t.StartTime,
		DurationMinutes: t.DurationMinutes,
		Location:        t.Location,
		Notes:           t.Notes,
	}
	_, err := c.do(ctx, token, http.MethodPost, "/api/admin/schedule/", body)
	return err
}

// CreateBulkTrainings creates one session per date for a group.
// PRE: dates are ISO YYYY-MM-DD
// POST: Returns the number of sessions the backend created
func (c *Client) CreateBulkTrainings(ctx context.Context, token string, t training.Training, dates []string) (int, error) {
	body := map[string]any{
		"bulk_create":      true,
		"group_id":         t.GroupID,
		"dates":            dates,
		"time":             t.StartTime,
		"duration_minutes": t.DurationMinutes,
		"location":         t.Location,
		"notes":            t.Notes,
	}
	raw, err := c.do(ctx, token, http.MethodPost, "/api/admin/schedule/", body)
	if err != nil {
		return 0, err
	}
	var payload struct {
		CreatedCount int `json:"created_count"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, &APIError{Message: "некорректный ответ сервера"}
	}
	return payload.CreatedCount, nil
}

// UpdateTraining replaces an existing session's fields.
func (c *Client) UpdateTraining(ctx context.Context, token string, t training.Training) error {
	body := trainingBody{
		GroupID:         t.GroupID,
		Date:            t.Date,
		Time:            t.StartTime,
		DurationMinutes: t.DurationMinutes,
		Location:        t.Location,
		Notes:           t.Notes,
	}
	_, err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/admin/schedule/%d/", t.ID), body)
	return err
}

// DeleteTraining removes a scheduled session.
func (c *Client) DeleteTraining(ctx context.Context, token string, trainingID int64) error {
	_, err := c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/admin/schedule/%d/", trainingID), nil)
	return err
}

// AttendanceTableData is the raw material for the month table view:
// the filtered children, the distinct training dates of the month and
// the attendance records covering them.
type AttendanceTableData struct {
	Children []child.Child
	Dates    []string // ISO, as supplied by the backend
	Records  []attendance.Record
}

// AttendanceTable fetches the admin month-table data.
// PRE: month is formatted YYYY-MM
func (c *Client) AttendanceTable(ctx context.Context, token, month string) (AttendanceTableData, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/admin/attendance-table/?month="+url.QueryEscape(month), nil)
	if err != nil {
		return AttendanceTableData{}, err
	}
	var payload struct {
		Children []childPayload      `json:"children"`
		Dates    []string            `json:"dates"`
		Records  []attendancePayload `json:"records"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return AttendanceTableData{}, &APIError{Message: "некорректный ответ сервера"}
	}
	data := AttendanceTableData{}
	for _, cp := range payload.Children {
		data.Children = append(data.Children, cp.toChild())
	}
	for _, d := range payload.Dates {
		data.Dates = append(data.Dates, dateutil.ToISO(d))
	}
	for _, ap := range payload.Records {
		data.Records = append(data.Records, ap.toRecord())
	}
	return data, nil
}

// AdminGroupChildren lists the children of one group.
func (c *Client) AdminGroupChildren(ctx context.Context, token string, groupID int64) ([]child.Child, error) {
	raw, err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/admin/group-children/?group_id=%d", groupID), nil)
	if err != nil {
		return nil, err
	}
	return decodeChildList(raw)
}

// GenerateInvoices asks the backend to issue next month's invoices.
// POST: Returns the number of invoices created
func (c *Client) GenerateInvoices(ctx context.Context, token string) (int, error) {
	raw, err := c.do(ctx, token, http.MethodPost, "/api/admin/generate-invoices/", struct{}{})
	if err != nil {
		return 0, err
	}
	var payload struct {
		CreatedCount int `json:"created_count"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, &APIError{Message: "некорректный ответ сервера"}
	}
	return payload.CreatedCount, nil
}

// PaymentSettings holds per-site billing configuration. Values are
// edited by admins and applied by the backend's invoice generator.
type PaymentSettings struct {
	PricePerTraining         string `json:"price_per_training"`
	DefaultTrainingsPerMonth int    `json:"default_trainings_per_month"`
	InvoiceGenerationDay     int    `json:"invoice_generation_day"`
	IsActive                 bool   `json:"is_active"`
}

// GetPaymentSettings fetches the billing configuration.
func (c *Client) GetPaymentSettings(ctx context.Context, token string) (PaymentSettings, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/admin/payment-settings/", nil)
	if err != nil {
		return PaymentSettings{}, err
	}
	var settings PaymentSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return PaymentSettings{}, &APIError{Message: "некорректный ответ сервера"}
	}
	return settings, nil
}

// UpdatePaymentSettings replaces the billing configuration.
func (c *Client) UpdatePaymentSettings(ctx context.Context, token string, settings PaymentSettings) error {
	_, err := c.do(ctx, token, http.MethodPut, "/api/admin/payment-settings/", settings)
	return err
}
