package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"academy/internal/application/dateutil"
	"academy/internal/domain/attendance"
	"academy/internal/domain/child"
	"academy/internal/domain/comment"
	"academy/internal/domain/group"
)

type groupPayload struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	KindergartenNumber string `json:"kindergarten_number"`
	TrainerID          int64  `json:"trainer_id"`
	TrainerName        string `json:"trainer_name"`
	ChildrenCount      int    `json:"children_count"`
}

func (p groupPayload) toGroup() group.Group {
	return group.Group{
		ID:                 p.ID,
		Name:               p.Name,
		KindergartenNumber: p.KindergartenNumber,
		TrainerID:          p.TrainerID,
		TrainerName:        p.TrainerName,
		ChildrenCount:      p.ChildrenCount,
	}
}

// Kindergarten is one physical site with its groups, as returned by
// the attendance and schedule pickers.
type Kindergarten struct {
	Number string
	Groups []group.Group
}

type kindergartenPayload struct {
	Number string         `json:"number"`
	Groups []groupPayload `json:"groups"`
}

func toKindergartens(payloads []kindergartenPayload) []Kindergarten {
	sites := make([]Kindergarten, 0, len(payloads))
	for _, kp := range payloads {
		site := Kindergarten{Number: kp.Number}
		for _, gp := range kp.Groups {
			site.Groups = append(site.Groups, gp.toGroup())
		}
		sites = append(sites, site)
	}
	return sites
}

type attendancePayload struct {
	ID      int64  `json:"id"`
	ChildID int64  `json:"child_id"`
	GroupID int64  `json:"group_id"`
	Date    string `json:"date"`
	Status  bool   `json:"status"`
	Reason  string `json:"reason"`
}

func (p attendancePayload) toRecord() attendance.Record {
	return attendance.Record{
		ID:       p.ID,
		ChildID:  p.ChildID,
		GroupID:  p.GroupID,
		Date:     dateutil.ToISO(p.Date),
		Attended: p.Status,
		Reason:   p.Reason,
	}
}

// TrainerGroups lists the groups assigned to the logged-in trainer.
func (c *Client) TrainerGroups(ctx context.Context, token string) ([]group.Group, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/trainer/groups/", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Groups []groupPayload `json:"groups"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	groups := make([]group.Group, 0, len(payload.Groups))
	for _, gp := range payload.Groups {
		groups = append(groups, gp.toGroup())
	}
	return groups, nil
}

// TrainerGroupDetail fetches one group together with its children.
func (c *Client) TrainerGroupDetail(ctx context.Context, token string, groupID int64) (group.Group, []child.Child, error) {
	raw, err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/trainer/group/%d/", groupID), nil)
	if err != nil {
		return group.Group{}, nil, err
	}
	var payload struct {
		Group groupPayload `json:"group"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return group.Group{}, nil, &APIError{Message: "некорректный ответ сервера"}
	}
	children, err := decodeChildList(raw)
	if err != nil {
		return group.Group{}, nil, err
	}
	return payload.Group.toGroup(), children, nil
}

// AttendanceSites lists kindergartens and groups for attendance marking.
func (c *Client) AttendanceSites(ctx context.Context, token string) ([]Kindergarten, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/trainer/attendance/", nil)
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

// AttendanceGroupChildren lists a group's children for marking.
func (c *Client) AttendanceGroupChildren(ctx context.Context, token string, groupID int64) ([]child.Child, error) {
	raw, err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/trainer/attendance/group/%d/", groupID), nil)
	if err != nil {
		return nil, err
	}
	return decodeChildList(raw)
}

// AttendanceEntry is one child's mark in a bulk attendance submission.
type AttendanceEntry struct {
	ChildID int64  `json:"child_id"`
	Status  bool   `json:"status"`
	Reason  string `json:"reason"`
}

// CreateAttendance submits attendance marks for a whole group on one
// date. The date is sent as ISO YYYY-MM-DD.
// POST: Returns the number of records the backend created
func (c *Client) CreateAttendance(ctx context.Context, token string, groupID int64, date string, entries []AttendanceEntry) (int, error) {
	body := map[string]any{
		"group_id":        groupID,
		"date":            date,
		"attendance_data": entries,
	}
	raw, err := c.do(ctx, token, http.MethodPost, "/api/trainer/attendance/", body)
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

// AttendanceHistory fetches a group's attendance records, optionally
// bounded by an ISO date range.
func (c *Client) AttendanceHistory(ctx context.Context, token string, groupID int64, dateFrom, dateTo string) ([]attendance.Record, error) {
	params := url.Values{}
	if dateFrom != "" {
		params.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		params.Set("date_to", dateTo)
	}
	path := fmt.Sprintf("/api/trainer/attendance/history/%d/", groupID)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := c.do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeAttendanceList(raw)
}

func decodeAttendanceList(raw json.RawMessage) ([]attendance.Record, error) {
	var payload struct {
		Attendance []attendancePayload `json:"attendance"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	records := make([]attendance.Record, 0, len(payload.Attendance))
	for _, ap := range payload.Attendance {
		records = append(records, ap.toRecord())
	}
	return records, nil
}

type commentPayload struct {
	ID          int64  `json:"id"`
	ChildID     int64  `json:"child_id"`
	Date        string `json:"date"`
	Text        string `json:"text"`
	TrainerName string `json:"trainer_name"`
}

func (p commentPayload) toComment() comment.Comment {
	return comment.Comment{
		ID:          p.ID,
		ChildID:     p.ChildID,
		Date:        dateutil.ToISO(p.Date),
		Text:        p.Text,
		TrainerName: p.TrainerName,
	}
}

// TrainerComments lists the trainer's comments plus the children they
// may comment on.
func (c *Client) TrainerComments(ctx context.Context, token string) ([]comment.Comment, []child.Child, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/trainer/comments/", nil)
	if err != nil {
		return nil, nil, err
	}
	var payload struct {
		Comments []commentPayload `json:"comments"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, &APIError{Message: "некорректный ответ сервера"}
	}
	comments := make([]comment.Comment, 0, len(payload.Comments))
	for _, cp := range payload.Comments {
		comments = append(comments, cp.toComment())
	}
	children, err := decodeChildList(raw)
	if err != nil {
		return nil, nil, err
	}
	return comments, children, nil
}

// CreateComment posts a trainer comment on a child.
func (c *Client) CreateComment(ctx context.Context, token string, childID int64, text string) error {
	body := map[string]any{"child_id": childID, "comment_text": text}
	_, err := c.do(ctx, token, http.MethodPost, "/api/trainer/comments/", body)
	return err
}
