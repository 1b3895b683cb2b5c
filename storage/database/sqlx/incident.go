package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/incident"
)

type incidentRepository struct {
	repository
}

var _ incident.Repository = (*incidentRepository)(nil) // interface compliance check

func NewIncidentRepository(exec core.DBExecutor) *incidentRepository {
	return &incidentRepository{repository{exec: exec}}
}

func (repo incidentRepository) CreateIncident(ctx context.Context, inc incident.Incident, exec ...core.DBExecutor) (incident.Incident, error) {
	q := `INSERT INTO student_incidents (
			incident_id, student_id, incident_date, incident_type, incident_category,
			description, action_taken, recorded_by, recorded_at)
		VALUES (
			:incident_id, :student_id, :incident_date, :incident_type, :incident_category,
			:description, :action_taken, :recorded_by, :recorded_at)`

	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, inc); err != nil {
		return incident.Incident{}, trapErr(err, "creating incident")
	}
	return inc, nil
}

func (repo incidentRepository) QueryIncidents(ctx context.Context, filter incident.QueryFilter, exec ...core.DBExecutor) ([]incident.Entry, error) {
	var w where
	if filter.StudentID > 0 {
		w.and("i.student_id = ?", filter.StudentID)
	}
	if filter.Form > 0 {
		w.and("s.form = ?", filter.Form)
	}
	if filter.ClassName != "" {
		w.and("s.class_name = ?", filter.ClassName)
	}

	e := repo.getExec(exec)
	q := e.Rebind(`SELECT i.incident_id, i.student_id, i.incident_date, i.incident_type, i.incident_category,
			i.description, i.action_taken, i.recorded_by, i.recorded_at,
			s.admission_number, s.first_name, s.last_name, s.form, s.class_name
		FROM student_incidents i
		JOIN students s ON s.student_id = i.student_id` + w.String() + `
		ORDER BY i.incident_date DESC, i.recorded_at DESC, i.incident_id`)

	entries := make([]incident.Entry, 0)
	if err := sqlx.SelectContext(ctx, e, &entries, q, w.args...); err != nil {
		return nil, trapErr(err, "querying incidents")
	}
	return entries, nil
}
