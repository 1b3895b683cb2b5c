package incident

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

type (
	Repository interface {
		CreateIncident(ctx context.Context, inc Incident, exec ...core.DBExecutor) (Incident, error)
		// QueryIncidents returns the matching incidents, most recent first.
		QueryIncidents(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Entry, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

func (svc *Service) Record(ctx context.Context, ni NewIncident) (Incident, error) {
	if err := ni.Validate(svc.validate); err != nil {
		return Incident{}, err
	}

	inc := Incident{
		ID:          uuid.New().String(),
		StudentID:   ni.StudentID,
		Date:        ni.Date,
		Type:        ni.Type,
		Category:    null.NewString(ni.Category, ni.Category != ""),
		Description: ni.Description,
		ActionTaken: null.NewString(ni.ActionTaken, ni.ActionTaken != ""),
		RecordedBy:  ni.RecordedBy,
		RecordedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	inc, err := svc.repo.CreateIncident(ctx, inc)
	if err != nil {
		svc.logger.Error("recording incident failed", "student_id", ni.StudentID, "error", err)
		return Incident{}, err
	}
	return inc, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	filter.Clean()
	entries, err := svc.repo.QueryIncidents(ctx, filter)
	if err != nil {
		svc.logger.Error("querying incidents failed", "error", err)
		return nil, err
	}
	return entries, nil
}
