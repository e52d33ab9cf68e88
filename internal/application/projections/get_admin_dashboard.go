package projections

import (
	"context"

	"academy/internal/adapters/backend"
	"academy/internal/application/notify"
	"academy/internal/domain/notification"
)

// AdminDashboardGateway defines the backend calls needed by the admin
// dashboard projection.
type AdminDashboardGateway interface {
	ScheduleNotifications(ctx context.Context, token string) ([]notification.Notification, error)
	ScheduleGroups(ctx context.Context, token string) ([]backend.Kindergarten, error)
}

// GetAdminDashboardQuery carries input for the admin dashboard
// projection.
type GetAdminDashboardQuery struct {
	Token string
}

// GetAdminDashboardDeps holds dependencies for the admin dashboard
// projection.
type GetAdminDashboardDeps struct {
	Gateway AdminDashboardGateway
}

// AdminDashboardResult carries the output of the admin dashboard
// projection.
type AdminDashboardResult struct {
	Kindergartens []backend.Kindergarten
	Notifications []notification.Notification
	UnreadCount   int

	Errors map[string]string
}

// QueryAdminDashboard loads the admin landing view: the kindergarten
// and group tree plus the schedule-notification stream.
// POST: issues exactly one notifications fetch and one groups fetch
func QueryAdminDashboard(ctx context.Context, query GetAdminDashboardQuery, deps GetAdminDashboardDeps) (AdminDashboardResult, error) {
	result := AdminDashboardResult{Errors: make(map[string]string)}

	notifications, err := deps.Gateway.ScheduleNotifications(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["notifications"] = msg
	}
	result.Notifications = notifications
	result.UnreadCount = len(notify.Unread(notifications))

	kindergartens, err := deps.Gateway.ScheduleGroups(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["groups"] = msg
	}
	result.Kindergartens = kindergartens

	return result, nil
}
