package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"academy/internal/adapters/backend"
	"academy/internal/adapters/http/middleware"
	"academy/internal/application/listutil"
	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
	"academy/internal/domain/certificate"
	"academy/internal/domain/training"
)

// handleAdminDashboard renders the admin landing view: the kindergarten
// and group tree plus the schedule-notification stream with its popup.
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryAdminDashboard(r.Context(),
		projections.GetAdminDashboardQuery{Token: sess.BearerToken},
		projections.GetAdminDashboardDeps{Gateway: api})
	if err != nil {
		expireSession(w, r)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_dashboard.html", map[string]any{
			"Kindergartens": result.Kindergartens,
			"Notifications": result.Notifications,
			"UnreadCount":   result.UnreadCount,
			"Popup":         buildPopup(result.Notifications),
			"Errors":        result.Errors,
		})
		return
	}
	respondJSON(w, result)
}

// handleAdminAttendanceTable serves the month attendance table.
// GET /admin/attendance?month=YYYY-MM (defaults to the current month).
func handleAdminAttendanceTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	month := r.URL.Query().Get("month")
	if month == "" {
		month = timeNow().Format("2006-01")
	}

	result, err := projections.QueryAttendanceTable(r.Context(),
		projections.GetAttendanceTableQuery{Token: sess.BearerToken, Month: month},
		projections.GetAttendanceTableDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/admin/attendance")
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_attendance.html", map[string]any{
			"Month":           result.Month,
			"Dates":           result.Dates,
			"Rows":            result.Rows,
			"Totals":          result.Totals,
			"Buckets":         result.Buckets,
			"UnmatchedGroups": result.UnmatchedGroups,
			"Error":           r.URL.Query().Get("error"),
		})
		return
	}
	respondJSON(w, result)
}

// handleAdminCertificates handles both GET (review list) and POST
// (approve/reject) for /admin/certificates.
func handleAdminCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		certs, err := api.MedicalCertificates(ctx, sess.BearerToken)
		if err != nil {
			failAction(w, r, err, "/")
			return
		}

		lp := listutil.ParseListParams(r.URL.Query(),
			[]string{"date_from", "child_name"}, []string{"status"})
		status := lp.Filters["status"]
		var filtered []certificate.Certificate
		for _, c := range certs {
			if status != "" && c.Status != status {
				continue
			}
			if !lp.MatchesSearch(c.ChildName) {
				continue
			}
			filtered = append(filtered, c)
		}
		sortCertificates(filtered, lp.SortParams)

		pageInfo := listutil.NewPageInfo(lp.Page, lp.PerPage, len(filtered))
		start, end := pageInfo.Window(len(filtered))
		page := filtered[start:end]

		if isHTML {
			renderTemplate(w, r, "admin_certificates.html", map[string]any{
				"Certificates":   page,
				"PageInfo":       pageInfo,
				"Status":         status,
				"Search":         lp.Search,
				"Sort":           lp.Sort,
				"Dir":            lp.Dir,
				"StatusOptions":  []string{certificate.StatusPending, certificate.StatusApproved, certificate.StatusRejected},
				"PerPageOptions": listutil.PerPageOptions,
				"Error":          r.URL.Query().Get("error"),
			})
			return
		}
		respondJSON(w, map[string]any{"certificates": page, "page_info": pageInfo})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.ReviewCertificateInput{Token: sess.BearerToken}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.CertificateID = parseID(r.FormValue("certificate_id"))
			input.Approve = r.FormValue("action") == "approve"
			input.AdminComment = r.FormValue("admin_comment")
		} else {
			var body struct {
				CertificateID int64  `json:"certificate_id"`
				Action        string `json:"action"`
				AdminComment  string `json:"admin_comment"`
			}
			if err := strictDecode(r, &body); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			input.CertificateID = body.CertificateID
			input.Approve = body.Action == "approve"
			input.AdminComment = body.AdminComment
		}

		err := orchestrators.ExecuteReviewCertificate(ctx, input,
			orchestrators.ReviewCertificateDeps{Gateway: api})
		if err != nil {
			failAction(w, r, err, "/admin/certificates")
			return
		}
		if isHTML {
			http.Redirect(w, r, "/admin/certificates", http.StatusSeeOther)
			return
		}
		respondJSON(w, map[string]bool{"reviewed": true})
		return
	}

	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// sortCertificates orders the review list in place. ISO dates compare
// lexicographically. An empty key keeps the backend's order.
func sortCertificates(certs []certificate.Certificate, sp listutil.SortParams) {
	var less func(a, b certificate.Certificate) bool
	switch sp.Sort {
	case "date_from":
		less = func(a, b certificate.Certificate) bool { return a.DateFrom < b.DateFrom }
	case "child_name":
		less = func(a, b certificate.Certificate) bool { return a.ChildName < b.ChildName }
	default:
		return
	}
	sort.SliceStable(certs, func(i, j int) bool {
		if sp.Descending() {
			return less(certs[j], certs[i])
		}
		return less(certs[i], certs[j])
	})
}

// handleAdminSchedule handles both GET (schedule editor) and POST
// (create or update a session) for /admin/schedule. Multiple dates in
// one submission create a session per date.
func handleAdminSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		kindergartens, err := api.ScheduleGroups(ctx, sess.BearerToken)
		if err != nil {
			failAction(w, r, err, "/")
			return
		}
		trainings, err := api.Schedule(ctx, sess.BearerToken)
		if err != nil {
			failAction(w, r, err, "/")
			return
		}

		if isHTML {
			renderTemplate(w, r, "admin_schedule.html", map[string]any{
				"Kindergartens": kindergartens,
				"Trainings":     trainings,
				"Error":         r.URL.Query().Get("error"),
			})
			return
		}
		respondJSON(w, map[string]any{"kindergartens": kindergartens, "trainings": trainings})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.SaveTrainingInput{Token: sess.BearerToken}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Training = training.Training{
				ID:              parseID(r.FormValue("training_id")),
				GroupID:         parseID(r.FormValue("group_id")),
				Date:            r.FormValue("date"),
				StartTime:       r.FormValue("start_time"),
				DurationMinutes: int(parseID(r.FormValue("duration_minutes"))),
				Location:        r.FormValue("location"),
				Status:          r.FormValue("status"),
				Notes:           r.FormValue("notes"),
			}
			input.Dates = splitDates(r.FormValue("dates"))
		} else {
			var body struct {
				Training training.Training `json:"training"`
				Dates    []string          `json:"dates"`
			}
			if err := strictDecode(r, &body); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			input.Training = body.Training
			input.Dates = body.Dates
		}

		count, err := orchestrators.ExecuteSaveTraining(ctx, input,
			orchestrators.SaveTrainingDeps{Gateway: api})
		if err != nil {
			failAction(w, r, err, "/admin/schedule")
			return
		}
		if isHTML {
			http.Redirect(w, r, "/admin/schedule", http.StatusSeeOther)
			return
		}
		respondJSON(w, map[string]int{"saved": count})
		return
	}

	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// splitDates parses the comma-separated multi-date field of the
// schedule form.
func splitDates(s string) []string {
	var dates []string
	for _, part := range strings.Split(s, ",") {
		if d := strings.TrimSpace(part); d != "" {
			dates = append(dates, d)
		}
	}
	return dates
}

func handleAdminScheduleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteDeleteTraining(r.Context(),
		orchestrators.DeleteTrainingInput{
			Token:      sess.BearerToken,
			TrainingID: parseID(r.FormValue("training_id")),
		},
		orchestrators.SaveTrainingDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/admin/schedule")
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admin/schedule", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]bool{"deleted": true})
}

// handleAdminPayments handles both GET (billing settings form) and POST
// (save settings) for /admin/payments.
func handleAdminPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		settings, err := api.GetPaymentSettings(ctx, sess.BearerToken)
		if err != nil {
			failAction(w, r, err, "/")
			return
		}
		if isHTML {
			renderTemplate(w, r, "admin_payments.html", map[string]any{
				"Settings": settings,
				"Error":    r.URL.Query().Get("error"),
				"Saved":    r.URL.Query().Get("saved") == "1",
			})
			return
		}
		respondJSON(w, settings)
		return
	}

	if r.Method == "POST" {
		input := orchestrators.SavePaymentSettingsInput{Token: sess.BearerToken}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Settings = backend.PaymentSettings{
				PricePerTraining:         r.FormValue("price_per_training"),
				DefaultTrainingsPerMonth: int(parseID(r.FormValue("default_trainings_per_month"))),
				InvoiceGenerationDay:     int(parseID(r.FormValue("invoice_generation_day"))),
				IsActive:                 r.FormValue("is_active") == "on",
			}
		} else {
			if err := strictDecode(r, &input.Settings); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		err := orchestrators.ExecuteSavePaymentSettings(ctx, input,
			orchestrators.SavePaymentSettingsDeps{Gateway: api})
		if err != nil {
			failAction(w, r, err, "/admin/payments")
			return
		}
		if isHTML {
			http.Redirect(w, r, "/admin/payments?saved=1", http.StatusSeeOther)
			return
		}
		respondJSON(w, map[string]bool{"saved": true})
		return
	}

	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func handleAdminGenerateInvoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	count, err := orchestrators.ExecuteGenerateInvoices(r.Context(),
		orchestrators.GenerateInvoicesInput{Token: sess.BearerToken},
		orchestrators.GenerateInvoicesDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/admin/payments")
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, fmt.Sprintf("/admin/payments?generated=%d", count), http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]int{"created_count": count})
}

// handleAdminGroupChildren serves the child list of one group for the
// schedule editor's group picker. JSON only.
func handleAdminGroupChildren(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	groupID := parseID(r.URL.Query().Get("group_id"))
	if groupID == 0 {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}
	children, err := api.AdminGroupChildren(r.Context(), sess.BearerToken, groupID)
	if err != nil {
		failAction(w, r, err, "/admin/schedule")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"children": children})
}
