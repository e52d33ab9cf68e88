package projections

import (
	"context"

	"academy/internal/application/notify"
	"academy/internal/domain/attendance"
	"academy/internal/domain/certificate"
	"academy/internal/domain/child"
	"academy/internal/domain/comment"
	"academy/internal/domain/notification"
	"academy/internal/domain/training"
)

// ParentDashboardGateway defines the backend calls needed by the
// parent dashboard projection.
type ParentDashboardGateway interface {
	ParentChildren(ctx context.Context, token string) ([]child.Child, error)
	ParentAttendance(ctx context.Context, token string, month, year int) ([]attendance.Record, error)
	NextTraining(ctx context.Context, token string) (training.Training, bool, error)
	Schedule(ctx context.Context, token string) ([]training.Training, error)
	ParentComments(ctx context.Context, token string) ([]comment.Comment, error)
	ParentCertificates(ctx context.Context, token string) ([]certificate.Certificate, error)
	ScheduleNotifications(ctx context.Context, token string) ([]notification.Notification, error)
	CancellationNotifications(ctx context.Context, token string) ([]notification.Notification, error)
}

// GetParentDashboardQuery carries input for the parent dashboard
// projection.
type GetParentDashboardQuery struct {
	Token   string
	ChildID int64 // 0 selects the first child
	Month   int   // calendar month, 1..12
	Year    int
}

// GetParentDashboardDeps holds dependencies for the parent dashboard
// projection.
type GetParentDashboardDeps struct {
	Gateway ParentDashboardGateway
}

// ParentDashboardResult carries the output of the parent dashboard
// projection. Sections fail independently; Errors maps a section name
// to its inline message and the section's data stays zero.
type ParentDashboardResult struct {
	Children []child.Child
	Selected child.Child

	// AttendanceByDate maps each ISO date of the selected month with a
	// record to its table symbol, for the selected child only.
	AttendanceByDate map[string]string
	Month            int
	Year             int

	NextTraining    *training.Training
	Schedule        []training.Training // selected child's group only
	Comments        []comment.Comment
	Certificates    []certificate.Certificate
	Notifications   []notification.Notification // combined streams
	UnreadByChildID map[int64]int

	Errors map[string]string // section name → inline message
}

// QueryParentDashboard aggregates everything the parent dashboard
// renders. Attendance symbols come from real records, never derived
// from the calendar date itself.
// POST: session expiry propagates as an error; any other section
// failure lands in Errors under its section name
func QueryParentDashboard(ctx context.Context, query GetParentDashboardQuery, deps GetParentDashboardDeps) (ParentDashboardResult, error) {
	result := ParentDashboardResult{
		Month:            query.Month,
		Year:             query.Year,
		AttendanceByDate: make(map[string]string),
		UnreadByChildID:  make(map[int64]int),
		Errors:           make(map[string]string),
	}

	children, err := deps.Gateway.ParentChildren(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["children"] = msg
	}
	result.Children = children
	for _, ch := range children {
		if ch.ID == query.ChildID {
			result.Selected = ch
		}
	}
	if result.Selected.ID == 0 && len(children) > 0 {
		result.Selected = children[0]
	}

	records, err := deps.Gateway.ParentAttendance(ctx, query.Token, query.Month, query.Year)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["attendance"] = msg
	}
	for _, r := range records {
		if result.Selected.ID != 0 && r.ChildID != result.Selected.ID {
			continue
		}
		result.AttendanceByDate[r.Date] = r.Symbol()
	}

	if next, ok, err := deps.Gateway.NextTraining(ctx, query.Token); err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["next_training"] = msg
	} else if ok {
		result.NextTraining = &next
	}

	trainings, err := deps.Gateway.Schedule(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["schedule"] = msg
	}
	for _, t := range trainings {
		if result.Selected.GroupName == "" || t.GroupName == result.Selected.GroupName {
			result.Schedule = append(result.Schedule, t)
		}
	}

	comments, err := deps.Gateway.ParentComments(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["comments"] = msg
	}
	result.Comments = comments

	certs, err := deps.Gateway.ParentCertificates(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["certificates"] = msg
	}
	result.Certificates = certs

	schedule, err := deps.Gateway.ScheduleNotifications(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["notifications"] = msg
	}
	cancellations, err := deps.Gateway.CancellationNotifications(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["notifications"] = msg
	}
	result.Notifications = notify.Combine(schedule, cancellations)

	for _, ch := range children {
		result.UnreadByChildID[ch.ID] = notify.UnreadBadge(ch, schedule)
	}

	return result, nil
}
