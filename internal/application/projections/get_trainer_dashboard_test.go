package projections

import (
	"context"
	"testing"

	"academy/internal/adapters/backend"
	"academy/internal/domain/child"
	"academy/internal/domain/comment"
	"academy/internal/domain/group"
	"academy/internal/domain/notification"
)

type trainerDashboardGatewayMock struct {
	groups        []group.Group
	comments      []comment.Comment
	children      []child.Child
	schedule      []notification.Notification
	cancellations []notification.Notification

	groupsErr error
}

func (m *trainerDashboardGatewayMock) TrainerGroups(context.Context, string) ([]group.Group, error) {
	return m.groups, m.groupsErr
}

func (m *trainerDashboardGatewayMock) TrainerComments(context.Context, string) ([]comment.Comment, []child.Child, error) {
	return m.comments, m.children, nil
}

func (m *trainerDashboardGatewayMock) ScheduleNotifications(context.Context, string) ([]notification.Notification, error) {
	return m.schedule, nil
}

func (m *trainerDashboardGatewayMock) CancellationNotifications(context.Context, string) ([]notification.Notification, error) {
	return m.cancellations, nil
}

func TestQueryTrainerDashboard_CombinesStreamsAndCounts(t *testing.T) {
	gw := &trainerDashboardGatewayMock{
		groups: []group.Group{{ID: 2, Name: "Младшая группа"}},
		schedule: []notification.Notification{
			{ID: 1, IsRead: false},
			{ID: 2, IsRead: true},
		},
		cancellations: []notification.Notification{
			{ID: 3, Kind: notification.KindCancellation, IsRead: false},
		},
	}

	result, err := QueryTrainerDashboard(context.Background(),
		GetTrainerDashboardQuery{Token: "tok"},
		GetTrainerDashboardDeps{Gateway: gw})
	if err != nil {
		t.Fatalf("QueryTrainerDashboard: %v", err)
	}

	if len(result.Notifications) != 3 {
		t.Errorf("combined stream has %d items, want 3", len(result.Notifications))
	}
	if result.Notifications[2].ID != 3 {
		t.Error("cancellations must follow schedule items")
	}
	if result.UnreadCount != 2 {
		t.Errorf("UnreadCount = %d, want 2", result.UnreadCount)
	}
}

func TestQueryTrainerDashboard_GroupFailureIsInline(t *testing.T) {
	gw := &trainerDashboardGatewayMock{
		groupsErr: &backend.APIError{StatusCode: 500, Message: "внутренняя ошибка"},
		comments:  []comment.Comment{{ID: 1, ChildID: 7, Text: "Молодец"}},
	}

	result, err := QueryTrainerDashboard(context.Background(),
		GetTrainerDashboardQuery{Token: "tok"},
		GetTrainerDashboardDeps{Gateway: gw})
	if err != nil {
		t.Fatalf("section failure must not fail the whole query: %v", err)
	}
	if result.Errors["groups"] != "внутренняя ошибка" {
		t.Errorf("Errors[groups] = %q", result.Errors["groups"])
	}
	if len(result.Comments) != 1 {
		t.Error("other sections must still load")
	}
}
