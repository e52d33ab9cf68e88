package web

import (
	"io"
	"net/http"

	"academy/internal/adapters/http/middleware"
	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
)

// maxUploadBytes caps certificate and receipt uploads.
const maxUploadBytes = 10 << 20

// handleParentDashboard renders the parent landing view: children with
// unread badges, the attendance calendar, schedule, comments,
// certificates and the notification popup.
func handleParentDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	q := r.URL.Query()
	now := timeNow()
	month := int(parseID(q.Get("month")))
	year := int(parseID(q.Get("year")))
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	result, err := projections.QueryParentDashboard(ctx,
		projections.GetParentDashboardQuery{
			Token:   sess.BearerToken,
			ChildID: parseID(q.Get("child")),
			Month:   month,
			Year:    year,
		},
		projections.GetParentDashboardDeps{Gateway: api})
	if err != nil {
		expireSession(w, r)
		return
	}

	// Opening the dashboard shows the comment feed, which counts as
	// reading it for the selected child.
	orchestrators.ExecuteMarkCommentsRead(ctx, orchestrators.MarkCommentsReadInput{
		Token:   sess.BearerToken,
		ChildID: result.Selected.ID,
	}, orchestrators.MarkCommentsReadDeps{Gateway: api, Guard: commentsGuard})

	if isHTMLRequest(r) {
		renderTemplate(w, r, "parent_dashboard.html", map[string]any{
			"Children":         result.Children,
			"Selected":         result.Selected,
			"AttendanceByDate": result.AttendanceByDate,
			"Month":            result.Month,
			"Year":             result.Year,
			"NextTraining":     result.NextTraining,
			"Schedule":         result.Schedule,
			"Comments":         result.Comments,
			"Certificates":     result.Certificates,
			"Notifications":    result.Notifications,
			"UnreadByChildID":  result.UnreadByChildID,
			"Popup":            buildPopup(result.Notifications),
			"Errors":           result.Errors,
		})
		return
	}
	respondJSON(w, result)
}

// handleParentInvoices serves the invoice list grouped by child, with
// the backend's aggregate figures shown as supplied.
func handleParentInvoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryInvoiceGroups(r.Context(),
		projections.GetInvoiceGroupsQuery{Token: sess.BearerToken},
		projections.GetInvoiceGroupsDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/")
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "parent_invoices.html", map[string]any{
			"Groups":            result.Groups,
			"UnpaidMonths":      result.UnpaidMonths,
			"TotalUnpaidAmount": result.TotalUnpaidAmount,
			"Error":             r.URL.Query().Get("error"),
		})
		return
	}
	respondJSON(w, result)
}

// handleParentReceiptUpload attaches a payment receipt to an invoice.
// Multipart POST: invoice_id plus a receipt file.
func handleParentReceiptUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.UploadReceiptInput{
		Token:     sess.BearerToken,
		InvoiceID: parseID(r.FormValue("invoice_id")),
	}
	if file, header, err := r.FormFile("receipt"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			internalError(w, err)
			return
		}
		input.FileName = header.Filename
		input.File = data
	}

	list, err := orchestrators.ExecuteUploadReceipt(r.Context(), input,
		orchestrators.UploadReceiptDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/parent/invoices")
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/parent/invoices", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]any{
		"invoices":            projections.GroupInvoicesByChild(list.Invoices),
		"unpaid_months":       list.UnpaidMonths,
		"total_unpaid_amount": list.TotalUnpaidAmount,
	})
}

// handleParentCertificateUpload submits a medical certificate or a
// refund request. Multipart POST: date_from, date_to, note,
// absence_reason plus an optional certificate file.
func handleParentCertificateUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.SubmitCertificateInput{
		Token:         sess.BearerToken,
		DateFrom:      r.FormValue("date_from"),
		DateTo:        r.FormValue("date_to"),
		Note:          r.FormValue("note"),
		AbsenceReason: r.FormValue("absence_reason"),
	}
	if file, header, err := r.FormFile("certificate_file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			internalError(w, err)
			return
		}
		input.FileName = header.Filename
		input.File = data
	}

	err := orchestrators.ExecuteSubmitCertificate(r.Context(), input,
		orchestrators.SubmitCertificateDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/")
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]bool{"submitted": true})
}

// handleParentPayment serves the backend's monthly payment figures,
// displayed as supplied.
func handleParentPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	calc, err := api.GetPaymentCalculation(r.Context(), sess.BearerToken)
	if err != nil {
		failAction(w, r, err, "/")
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "parent_payment.html", map[string]any{
			"Calculation": calc,
		})
		return
	}
	respondJSON(w, calc)
}

// handleParentCommentsRead clears a child's unread-comment counter
// after the parent switched to that child's comment panel. Best-effort;
// the response is always success.
func handleParentCommentsRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	orchestrators.ExecuteMarkCommentsRead(r.Context(), orchestrators.MarkCommentsReadInput{
		Token:   sess.BearerToken,
		ChildID: parseID(r.FormValue("child_id")),
	}, orchestrators.MarkCommentsReadDeps{Gateway: api, Guard: commentsGuard})

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]bool{"ok": true})
}
