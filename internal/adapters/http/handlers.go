package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"academy/internal/adapters/backend"
	"academy/internal/adapters/http/middleware"
	"academy/internal/application/dateutil"
	"academy/internal/application/notify"
	"academy/internal/application/orchestrators"
	"academy/internal/domain/group"
	"academy/internal/domain/identity"
	"academy/internal/domain/notification"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	name := ""
	roleDisplay := ""
	if ok {
		role = sess.Identity.Role
		name = sess.Identity.Name()
		roleDisplay = sess.Identity.RoleDisplay
	}

	funcMap := template.FuncMap{
		"currentRole":        func() string { return role },
		"currentName":        func() string { return name },
		"currentRoleDisplay": func() string { return roleDisplay },
		"isLoggedIn":         func() bool { return role != "" },
		"csrfToken":          func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"displayDate": func(iso string) string {
			t, err := dateutil.Parse(iso)
			if err != nil {
				return iso
			}
			return dateutil.FormatDisplay(t)
		},
		"ageLabel": func(l group.AgeLevel) string { return l.Label() },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// parseID parses a form ID field, returning 0 for anything invalid.
// Downstream validation turns 0 into a user-facing selection error.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// expireSession ends the local session after the backend reported the
// bearer token invalid, and sends the user back to the login form.
func expireSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sessions.Delete(r.Context(), sess.Token)
	}
	middleware.ClearSessionCookie(w)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// failAction reports an action error back to the user. Session expiry
// forces re-login; anything else becomes an inline message on the page
// the form came from, so the entered data survives a retry.
func failAction(w http.ResponseWriter, r *http.Request, err error, backTo string) {
	if errors.Is(err, backend.ErrUnauthenticated) {
		expireSession(w, r)
		return
	}
	msg := backend.FormatUserError(err)
	if isHTMLRequest(r) {
		sep := "?"
		if strings.Contains(backTo, "?") {
			sep = "&"
		}
		http.Redirect(w, r, backTo+sep+"error="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// popupView is the initial popup state a dashboard page renders. The
// template lays out one element per unread item; the page script
// rotates through them on the interval and handles dismissal. This
// decides whether the popup opens, which item it opens on and what
// the rotation set is.
type popupView struct {
	Visible         bool
	Current         notification.Notification
	Items           []notification.Notification
	UnreadCount     int
	IntervalSeconds int
}

func buildPopup(items []notification.Notification) popupView {
	q := notify.NewPopupQueue()
	q.SetItems(items)
	view := popupView{
		Items:           notify.Unread(items),
		UnreadCount:     q.Len(),
		IntervalSeconds: int(notify.RotationInterval.Seconds()),
	}
	if current, ok := q.Current(); ok {
		view.Visible = true
		view.Current = current
	}
	return view
}

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)

	requireAny := middleware.RequireRole(identity.RoleAdmin, identity.RoleTrainer, identity.RoleParent)
	mux.Handle("/notifications/read", requireAny(http.HandlerFunc(handleMarkNotificationRead)))

	admin := middleware.RequireRole(identity.RoleAdmin)
	mux.Handle("/admin/attendance", admin(http.HandlerFunc(handleAdminAttendanceTable)))
	mux.Handle("/admin/certificates", admin(http.HandlerFunc(handleAdminCertificates)))
	mux.Handle("/admin/schedule", admin(http.HandlerFunc(handleAdminSchedule)))
	mux.Handle("/admin/schedule/delete", admin(http.HandlerFunc(handleAdminScheduleDelete)))
	mux.Handle("/admin/payments", admin(http.HandlerFunc(handleAdminPayments)))
	mux.Handle("/admin/invoices/generate", admin(http.HandlerFunc(handleAdminGenerateInvoices)))
	mux.Handle("/admin/group-children", admin(http.HandlerFunc(handleAdminGroupChildren)))

	trainer := middleware.RequireRole(identity.RoleTrainer)
	mux.Handle("/trainer/attendance", trainer(http.HandlerFunc(handleTrainerAttendance)))
	mux.Handle("/trainer/attendance/children", trainer(http.HandlerFunc(handleTrainerGroupChildren)))
	mux.Handle("/trainer/attendance/history", trainer(http.HandlerFunc(handleTrainerAttendanceHistory)))
	mux.Handle("/trainer/comments", trainer(http.HandlerFunc(handleTrainerComments)))

	parent := middleware.RequireRole(identity.RoleParent)
	mux.Handle("/parent/invoices", parent(http.HandlerFunc(handleParentInvoices)))
	mux.Handle("/parent/invoices/receipt", parent(http.HandlerFunc(handleParentReceiptUpload)))
	mux.Handle("/parent/certificates", parent(http.HandlerFunc(handleParentCertificateUpload)))
	mux.Handle("/parent/payment", parent(http.HandlerFunc(handleParentPayment)))
	mux.Handle("/parent/comments/read", parent(http.HandlerFunc(handleParentCommentsRead)))
}

// handleRoot dispatches "/" to the dashboard matching the session role.
// An unknown role gets a fallback page instead of an error.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	switch sess.Identity.Role {
	case identity.RoleAdmin:
		handleAdminDashboard(w, r)
	case identity.RoleTrainer:
		handleTrainerDashboard(w, r)
	case identity.RoleParent:
		handleParentDashboard(w, r)
	default:
		if isHTMLRequest(r) {
			renderTemplate(w, r, "unknown_role.html", map[string]any{
				"Role": sess.Identity.RoleDisplay,
			})
			return
		}
		respondJSON(w, map[string]string{"role": sess.Identity.Role, "dashboard": "none"})
	}
}

// handleLogin serves the login form and processes submissions.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"Error":    r.URL.Query().Get("error"),
			"Username": "",
		})
		return
	}
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.LoginInput{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Username = r.FormValue("username")
		input.Password = r.FormValue("password")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		Auth:     api,
		Sessions: sessions,
	})
	if err != nil {
		msg := backend.FormatUserError(err)
		if errors.Is(err, orchestrators.ErrMissingCredentials) {
			msg = err.Error()
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error":    msg,
				"Username": input.Username,
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": msg})
		return
	}

	middleware.SetSessionCookie(w, result.SessionToken)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]string{
		"role":         result.User.Role,
		"display_name": result.User.Name(),
	})
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if ok {
		orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
			SessionToken: sess.Token,
			BearerToken:  sess.BearerToken,
		}, orchestrators.LogoutDeps{Auth: api, Sessions: sessions})
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleMarkNotificationRead confirms one popup item with the backend.
// The page removed the item optimistically; a failure response tells it
// to restore the item.
func handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.MarkNotificationReadInput{Token: sess.BearerToken}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.NotificationID = parseID(r.FormValue("notification_id"))
	} else {
		var body struct {
			NotificationID int64 `json:"notification_id"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.NotificationID = body.NotificationID
	}

	err := orchestrators.ExecuteMarkNotificationRead(r.Context(), input,
		orchestrators.MarkNotificationReadDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/")
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]bool{"read": true})
}
