package projections

import (
	"context"

	"academy/internal/application/notify"
	"academy/internal/domain/child"
	"academy/internal/domain/comment"
	"academy/internal/domain/group"
	"academy/internal/domain/notification"
)

// TrainerDashboardGateway defines the backend calls needed by the
// trainer dashboard projection.
type TrainerDashboardGateway interface {
	TrainerGroups(ctx context.Context, token string) ([]group.Group, error)
	TrainerComments(ctx context.Context, token string) ([]comment.Comment, []child.Child, error)
	ScheduleNotifications(ctx context.Context, token string) ([]notification.Notification, error)
	CancellationNotifications(ctx context.Context, token string) ([]notification.Notification, error)
}

// GetTrainerDashboardQuery carries input for the trainer dashboard
// projection.
type GetTrainerDashboardQuery struct {
	Token string
}

// GetTrainerDashboardDeps holds dependencies for the trainer dashboard
// projection.
type GetTrainerDashboardDeps struct {
	Gateway TrainerDashboardGateway
}

// TrainerDashboardResult carries the output of the trainer dashboard
// projection.
type TrainerDashboardResult struct {
	Groups        []group.Group
	Comments      []comment.Comment
	Children      []child.Child
	Notifications []notification.Notification
	UnreadCount   int

	Errors map[string]string
}

// QueryTrainerDashboard loads the trainer landing view: assigned
// groups, the comment feed with its children, and both notification
// streams combined.
func QueryTrainerDashboard(ctx context.Context, query GetTrainerDashboardQuery, deps GetTrainerDashboardDeps) (TrainerDashboardResult, error) {
	result := TrainerDashboardResult{Errors: make(map[string]string)}

	groups, err := deps.Gateway.TrainerGroups(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["groups"] = msg
	}
	result.Groups = groups

	comments, children, err := deps.Gateway.TrainerComments(ctx, query.Token)
	if err != nil {
		msg, fatal := sectionFail(err)
		if fatal != nil {
			return result, fatal
		}
		result.Errors["comments"] = msg
	}
	result.Comments = comments
	result.Children = children

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
	result.UnreadCount = len(notify.Unread(result.Notifications))

	return result, nil
}
