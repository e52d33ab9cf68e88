package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"academy/internal/adapters/backend"
	"academy/internal/adapters/http/middleware"
	"academy/internal/application/orchestrators"
	"academy/internal/application/projections"
)

// handleTrainerDashboard renders the trainer landing view: assigned
// groups, the parent comment feed and the notification stream.
func handleTrainerDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryTrainerDashboard(r.Context(),
		projections.GetTrainerDashboardQuery{Token: sess.BearerToken},
		projections.GetTrainerDashboardDeps{Gateway: api})
	if err != nil {
		expireSession(w, r)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "trainer_dashboard.html", map[string]any{
			"Groups":        result.Groups,
			"Comments":      result.Comments,
			"Children":      result.Children,
			"Notifications": result.Notifications,
			"UnreadCount":   result.UnreadCount,
			"Popup":         buildPopup(result.Notifications),
			"Errors":        result.Errors,
		})
		return
	}
	respondJSON(w, result)
}

// handleTrainerAttendance handles both GET (the marking form with the
// kindergarten and group tree) and POST (bulk mark submission) for
// /trainer/attendance.
func handleTrainerAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		sites, err := api.AttendanceSites(ctx, sess.BearerToken)
		if err != nil {
			failAction(w, r, err, "/")
			return
		}
		if isHTML {
			renderTemplate(w, r, "trainer_attendance.html", map[string]any{
				"Kindergartens": sites,
				"Date":          timeNow().Format("2006-01-02"),
				"Error":         r.URL.Query().Get("error"),
				"Saved":         r.URL.Query().Get("saved"),
			})
			return
		}
		respondJSON(w, map[string]any{"kindergartens": sites})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.RecordAttendanceInput{Token: sess.BearerToken}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.GroupID = parseID(r.FormValue("group_id"))
			input.Date = r.FormValue("date")
			input.Entries = parseAttendanceForm(r)
		} else {
			var body struct {
				GroupID int64                     `json:"group_id"`
				Date    string                    `json:"date"`
				Entries []backend.AttendanceEntry `json:"entries"`
			}
			if err := strictDecode(r, &body); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			input.GroupID = body.GroupID
			input.Date = body.Date
			input.Entries = body.Entries
		}

		count, err := orchestrators.ExecuteRecordAttendance(ctx, input,
			orchestrators.RecordAttendanceDeps{Gateway: api})
		if err != nil {
			failAction(w, r, err, "/trainer/attendance")
			return
		}
		if isHTML {
			http.Redirect(w, r, "/trainer/attendance?saved=1", http.StatusSeeOther)
			return
		}
		respondJSON(w, map[string]int{"created_count": count})
		return
	}

	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// parseAttendanceForm reads one mark per child from the form fields
// status_<childID> ("attended" or "missed") and reason_<childID>.
func parseAttendanceForm(r *http.Request) []backend.AttendanceEntry {
	var entries []backend.AttendanceEntry
	for key, values := range r.PostForm {
		childID, ok := strings.CutPrefix(key, "status_")
		if !ok || len(values) == 0 {
			continue
		}
		id := parseID(childID)
		if id == 0 {
			continue
		}
		entries = append(entries, backend.AttendanceEntry{
			ChildID: id,
			Status:  values[0] == "attended",
			Reason:  r.PostForm.Get("reason_" + childID),
		})
	}
	return entries
}

// handleTrainerGroupChildren serves the child list of one group for the
// marking form. JSON only.
func handleTrainerGroupChildren(w http.ResponseWriter, r *http.Request) {
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
	children, err := api.AttendanceGroupChildren(r.Context(), sess.BearerToken, groupID)
	if err != nil {
		failAction(w, r, err, "/trainer/attendance")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"children": children})
}

// handleTrainerAttendanceHistory serves a group's past records,
// optionally bounded by ?date_from and ?date_to.
func handleTrainerAttendanceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	q := r.URL.Query()
	groupID := parseID(q.Get("group_id"))
	if groupID == 0 {
		http.Error(w, "group_id is required", http.StatusBadRequest)
		return
	}
	records, err := api.AttendanceHistory(r.Context(), sess.BearerToken,
		groupID, q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		failAction(w, r, err, "/trainer/attendance")
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "trainer_attendance_history.html", map[string]any{
			"GroupID": groupID,
			"Records": records,
		})
		return
	}
	respondJSON(w, map[string]any{"records": records})
}

// handleTrainerComments creates a comment on a child. POST only; the
// feed itself renders on the trainer dashboard.
func handleTrainerComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.CreateCommentInput{Token: sess.BearerToken}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.ChildID = parseID(r.FormValue("child_id"))
		input.Text = r.FormValue("text")
	} else {
		var body struct {
			ChildID int64  `json:"child_id"`
			Text    string `json:"text"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.ChildID = body.ChildID
		input.Text = body.Text
	}

	err := orchestrators.ExecuteCreateComment(r.Context(), input,
		orchestrators.CreateCommentDeps{Gateway: api})
	if err != nil {
		failAction(w, r, err, "/")
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	respondJSON(w, map[string]bool{"created": true})
}
