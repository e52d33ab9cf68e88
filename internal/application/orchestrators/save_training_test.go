package orchestrators

import (
	"context"
	"errors"
	"testing"

	"academy/internal/domain/training"
)

type mockScheduleGateway struct {
	created []training.Training
	bulk    []string
	updated []training.Training
	deleted []int64
}

func (m *mockScheduleGateway) CreateTraining(_ context.Context, _ string, t training.Training) error {
	m.created = append(m.created, t)
	return nil
}

func (m *mockScheduleGateway) CreateBulkTrainings(_ context.Context, _ string, t training.Training, dates []string) (int, error) {
	m.bulk = dates
	return len(dates), nil
}

func (m *mockScheduleGateway) UpdateTraining(_ context.Context, _ string, t training.Training) error {
	m.updated = append(m.updated, t)
	return nil
}

func (m *mockScheduleGateway) DeleteTraining(_ context.Context, _ string, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestExecuteSaveTraining_SingleDateCreates(t *testing.T) {
	gw := &mockScheduleGateway{}
	count, err := ExecuteSaveTraining(context.Background(), SaveTrainingInput{
		Token: "tok",
		Training: training.Training{
			GroupID:   2,
			Date:      "26.03.2025", // display format must be normalized
			StartTime: "17:00",
		},
	}, SaveTrainingDeps{Gateway: gw})

	if err != nil {
		t.Fatalf("ExecuteSaveTraining: %v", err)
	}
	if count != 1 || len(gw.created) != 1 {
		t.Fatalf("count = %d, created = %d, want 1/1", count, len(gw.created))
	}
	if gw.created[0].Date != "2025-03-26" {
		t.Errorf("date sent as %q, want ISO 2025-03-26", gw.created[0].Date)
	}
}

func TestExecuteSaveTraining_MultipleDatesBulk(t *testing.T) {
	gw := &mockScheduleGateway{}
	count, err := ExecuteSaveTraining(context.Background(), SaveTrainingInput{
		Token: "tok",
		Training: training.Training{
			GroupID:   2,
			StartTime: "17:00",
		},
		Dates: []string{"2025-03-05", "2025-03-12", "2025-03-19"},
	}, SaveTrainingDeps{Gateway: gw})

	if err != nil {
		t.Fatalf("ExecuteSaveTraining: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if len(gw.bulk) != 3 || len(gw.created) != 0 {
		t.Errorf("bulk = %v, created = %v, want bulk path only", gw.bulk, gw.created)
	}
}

func TestExecuteSaveTraining_ExistingIDUpdates(t *testing.T) {
	gw := &mockScheduleGateway{}
	count, err := ExecuteSaveTraining(context.Background(), SaveTrainingInput{
		Token: "tok",
		Training: training.Training{
			ID:        9,
			GroupID:   2,
			Date:      "2025-03-26",
			StartTime: "18:00",
		},
	}, SaveTrainingDeps{Gateway: gw})

	if err != nil {
		t.Fatalf("ExecuteSaveTraining: %v", err)
	}
	if count != 1 || len(gw.updated) != 1 {
		t.Fatalf("count = %d, updated = %d, want update path", count, len(gw.updated))
	}
	if len(gw.created) != 0 || gw.bulk != nil {
		t.Error("update also hit a create path")
	}
}

func TestExecuteSaveTraining_ValidationBlocksNetwork(t *testing.T) {
	gw := &mockScheduleGateway{}
	_, err := ExecuteSaveTraining(context.Background(), SaveTrainingInput{
		Token:    "tok",
		Training: training.Training{Date: "2025-03-26", StartTime: "17:00"},
	}, SaveTrainingDeps{Gateway: gw})

	if !errors.Is(err, training.ErrNoGroup) {
		t.Fatalf("err = %v, want ErrNoGroup", err)
	}
	if len(gw.created) != 0 && gw.bulk == nil {
		t.Error("invalid training reached the gateway")
	}
}

func TestExecuteDeleteTraining(t *testing.T) {
	gw := &mockScheduleGateway{}
	if err := ExecuteDeleteTraining(context.Background(),
		DeleteTrainingInput{Token: "tok", TrainingID: 4},
		SaveTrainingDeps{Gateway: gw}); err != nil {
		t.Fatalf("ExecuteDeleteTraining: %v", err)
	}
	if len(gw.deleted) != 1 || gw.deleted[0] != 4 {
		t.Errorf("deleted = %v, want [4]", gw.deleted)
	}

	if err := ExecuteDeleteTraining(context.Background(),
		DeleteTrainingInput{Token: "tok"},
		SaveTrainingDeps{Gateway: gw}); !errors.Is(err, ErrNoTrainingSelected) {
		t.Errorf("err = %v, want ErrNoTrainingSelected", err)
	}
}
