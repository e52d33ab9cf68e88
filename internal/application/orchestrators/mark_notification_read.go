package orchestrators

import (
	"context"
	"errors"
)

// NotificationReadGateway defines the backend calls needed by
// MarkNotificationRead.
type NotificationReadGateway interface {
	MarkNotificationRead(ctx context.Context, token string, notificationID int64) error
}

// MarkNotificationReadInput carries input for the mark-read
// orchestrator.
type MarkNotificationReadInput struct {
	Token          string
	NotificationID int64 `validate:"required"`
}

// MarkNotificationReadDeps holds dependencies for MarkNotificationRead.
type MarkNotificationReadDeps struct {
	Gateway NotificationReadGateway
}

var ErrNoNotificationSelected = errors.New("уведомление не выбрано")

// ExecuteMarkNotificationRead confirms the shown popup item with the
// backend. The caller removes the item optimistically and restores it
// when this fails.
func ExecuteMarkNotificationRead(ctx context.Context, input MarkNotificationReadInput, deps MarkNotificationReadDeps) error {
	if err := validate.Struct(input); err != nil {
		return ErrNoNotificationSelected
	}
	return deps.Gateway.MarkNotificationRead(ctx, input.Token, input.NotificationID)
}
