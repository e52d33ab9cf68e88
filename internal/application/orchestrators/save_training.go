package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"academy/internal/application/dateutil"
	"academy/internal/domain/training"
)

// ScheduleGateway defines the backend calls needed by the schedule
// orchestrators.
type ScheduleGateway interface {
	CreateTraining(ctx context.Context, token string, t training.Training) error
	CreateBulkTrainings(ctx context.Context, token string, t training.Training, dates []string) (int, error)
	UpdateTraining(ctx context.Context, token string, t training.Training) error
	DeleteTraining(ctx context.Context, token string, trainingID int64) error
}

// SaveTrainingInput carries input for the save orchestrator. More than
// one date means bulk creation; a non-zero training ID means update.
type SaveTrainingInput struct {
	Token    string
	Training training.Training
	Dates    []string
}

// SaveTrainingDeps holds dependencies for SaveTraining.
type SaveTrainingDeps struct {
	Gateway ScheduleGateway
}

var ErrNoDatesSelected = errors.New("выберите хотя бы одну дату")

// ExecuteSaveTraining creates or updates scheduled sessions. All dates
// flow to the backend as ISO YYYY-MM-DD regardless of input format.
// POST: Returns the number of sessions created (1 for an update)
func ExecuteSaveTraining(ctx context.Context, input SaveTrainingInput, deps SaveTrainingDeps) (int, error) {
	t := input.Training
	if t.Status == "" {
		t.Status = training.StatusScheduled
	}
	if t.Date == "" && len(input.Dates) > 0 {
		t.Date = input.Dates[0]
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if t.ID != 0 {
		date, err := dateutil.Parse(t.Date)
		if err != nil {
			return 0, training.ErrNoDate
		}
		t.Date = date.Format(dateutil.ISO)
		if err := deps.Gateway.UpdateTraining(ctx, input.Token, t); err != nil {
			return 0, err
		}
		slog.Info("schedule_updated", "training_id", t.ID, "group_id", t.GroupID)
		return 1, nil
	}

	dates := input.Dates
	if len(dates) == 0 && t.Date != "" {
		dates = []string{t.Date}
	}
	if len(dates) == 0 {
		return 0, ErrNoDatesSelected
	}
	iso := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := dateutil.Parse(d)
		if err != nil {
			return 0, training.ErrNoDate
		}
		iso = append(iso, parsed.Format(dateutil.ISO))
	}

	if len(iso) == 1 {
		t.Date = iso[0]
		if err := deps.Gateway.CreateTraining(ctx, input.Token, t); err != nil {
			return 0, err
		}
		slog.Info("schedule_created", "group_id", t.GroupID, "date", t.Date)
		return 1, nil
	}

	count, err := deps.Gateway.CreateBulkTrainings(ctx, input.Token, t, iso)
	if err != nil {
		return 0, err
	}
	slog.Info("schedule_created", "group_id", t.GroupID, "dates", len(iso), "created", count)
	return count, nil
}

// DeleteTrainingInput carries input for the delete orchestrator.
type DeleteTrainingInput struct {
	Token      string
	TrainingID int64 `validate:"required"`
}

var ErrNoTrainingSelected = errors.New("тренировка не выбрана")

// ExecuteDeleteTraining removes one scheduled session.
func ExecuteDeleteTraining(ctx context.Context, input DeleteTrainingInput, deps SaveTrainingDeps) error {
	if err := validate.Struct(input); err != nil {
		return ErrNoTrainingSelected
	}
	if err := deps.Gateway.DeleteTraining(ctx, input.Token, input.TrainingID); err != nil {
		return err
	}
	slog.Info("schedule_deleted", "training_id", input.TrainingID)
	return nil
}
