package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"academy/internal/adapters/backend"
	"academy/internal/application/dateutil"
)

// AttendanceGateway defines the backend calls needed by
// RecordAttendance.
type AttendanceGateway interface {
	CreateAttendance(ctx context.Context, token string, groupID int64, date string, entries []backend.AttendanceEntry) (int, error)
}

// RecordAttendanceInput carries input for the attendance orchestrator:
// one mark per child of the group on one date.
type RecordAttendanceInput struct {
	Token   string
	GroupID int64                     `validate:"required"`
	Date    string                    `validate:"required"`
	Entries []backend.AttendanceEntry `validate:"min=1"`
}

// RecordAttendanceDeps holds dependencies for RecordAttendance.
type RecordAttendanceDeps struct {
	Gateway AttendanceGateway
}

var (
	ErrNoGroupSelected  = errors.New("выберите группу и дату")
	ErrNoMarkedChildren = errors.New("отметьте хотя бы одного ребёнка")
)

// ExecuteRecordAttendance submits a whole group's attendance for one
// date.
// POST: Returns the number of records the backend created
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) (int, error) {
	if err := validate.Struct(input); err != nil {
		if len(input.Entries) == 0 {
			return 0, ErrNoMarkedChildren
		}
		return 0, ErrNoGroupSelected
	}
	date, err := dateutil.Parse(input.Date)
	if err != nil {
		return 0, ErrNoGroupSelected
	}

	count, err := deps.Gateway.CreateAttendance(ctx, input.Token, input.GroupID, date.Format(dateutil.ISO), input.Entries)
	if err != nil {
		return 0, err
	}
	slog.Info("attendance_recorded", "group_id", input.GroupID, "date", date.Format(dateutil.ISO), "created", count)
	return count, nil
}
