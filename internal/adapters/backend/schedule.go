package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"academy/internal/domain/notification"
	"academy/internal/domain/training"
)

// Schedule fetches the training schedule visible to the current role.
// The backend wraps the list as {trainings, count}; only the list is
// of interest here.
func (c *Client) Schedule(ctx context.Context, token string) ([]training.Training, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/schedule/", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Trainings []trainingPayload `json:"trainings"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	trainings := make([]training.Training, 0, len(payload.Trainings))
	for _, tp := range payload.Trainings {
		trainings = append(trainings, tp.toTraining())
	}
	return trainings, nil
}

type notificationPayload struct {
	ID       int64  `json:"id"`
	TypeCode string `json:"type_code"`
	Training struct {
		GroupName string `json:"group_name"`
	} `json:"training"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	IsRead    bool   `json:"is_read"`
}

func (p notificationPayload) toNotification(kind string) notification.Notification {
	return notification.Notification{
		ID:        p.ID,
		Kind:      kind,
		TypeCode:  p.TypeCode,
		GroupName: p.Training.GroupName,
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
		IsRead:    p.IsRead,
	}
}

func decodeNotificationList(raw json.RawMessage, kind string) ([]notification.Notification, error) {
	var payload struct {
		Notifications []notificationPayload `json:"notifications"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	items := make([]notification.Notification, 0, len(payload.Notifications))
	for _, np := range payload.Notifications {
		items = append(items, np.toNotification(kind))
	}
	return items, nil
}

// ScheduleNotifications fetches the schedule-change stream.
func (c *Client) ScheduleNotifications(ctx context.Context, token string) ([]notification.Notification, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/schedule/notifications/", nil)
	if err != nil {
		return nil, err
	}
	return decodeNotificationList(raw, notification.KindSchedule)
}

// CancellationNotifications fetches the cancellation stream.
func (c *Client) CancellationNotifications(ctx context.Context, token string) ([]notification.Notification, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/api/training-cancellation-notifications/", nil)
	if err != nil {
		return nil, err
	}
	return decodeNotificationList(raw, notification.KindCancellation)
}

// MarkNotificationRead confirms a schedule notification's read state
// with the backend. Callers flip the flag optimistically and roll it
// back when this fails.
func (c *Client) MarkNotificationRead(ctx context.Context, token string, notificationID int64) error {
	_, err := c.do(ctx, token, http.MethodPost, fmt.Sprintf("/api/schedule/notifications/%d/read/", notificationID), struct{}{})
	return err
}
