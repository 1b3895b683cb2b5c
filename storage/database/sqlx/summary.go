package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
)

const upsertSummaryQuery = `INSERT INTO monthly_attendance_summary (
		student_id, month_year, admission_number, form, class_name,
		total_days, days_present, days_absent, days_late, days_excused,
		attendance_percentage, homework_completion_rate, uniform_compliance_rate, books_brought_rate,
		average_participation, comments, updated_at)
	VALUES (
		:student_id, :month_year, :admission_number, :form, :class_name,
		:total_days, :days_present, :days_absent, :days_late, :days_excused,
		:attendance_percentage, :homework_completion_rate, :uniform_compliance_rate, :books_brought_rate,
		:average_participation, :comments, :updated_at)
	ON CONFLICT (student_id, month_year) DO UPDATE SET
		admission_number = excluded.admission_number,
		form = excluded.form,
		class_name = excluded.class_name,
		total_days = excluded.total_days,
		days_present = excluded.days_present,
		days_absent = excluded.days_absent,
		days_late = excluded.days_late,
		days_excused = excluded.days_excused,
		attendance_percentage = excluded.attendance_percentage,
		homework_completion_rate = excluded.homework_completion_rate,
		uniform_compliance_rate = excluded.uniform_compliance_rate,
		books_brought_rate = excluded.books_brought_rate,
		average_participation = excluded.average_participation,
		comments = excluded.comments,
		updated_at = excluded.updated_at`

type summaryRepository struct {
	repository
}

var _ attendance.SummaryRepository = (*summaryRepository)(nil) // interface compliance check

func NewSummaryRepository(exec core.DBExecutor) *summaryRepository {
	return &summaryRepository{repository{exec: exec}}
}

func (repo summaryRepository) UpsertSummary(ctx context.Context, s attendance.MonthlySummary, exec ...core.DBExecutor) error {
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), upsertSummaryQuery, s); err != nil {
		return trapErr(err, "upserting monthly summary")
	}
	return nil
}

func (repo summaryRepository) QuerySummaries(ctx context.Context, month core.MonthYear, form int, className string, exec ...core.DBExecutor) ([]attendance.SummaryEntry, error) {
	var w where
	w.and("m.month_year = ?", month)
	if form > 0 {
		w.and("m.form = ?", form)
	}
	if className != "" {
		w.and("m.class_name = ?", className)
	}

	e := repo.getExec(exec)
	q := e.Rebind(`SELECT m.student_id, m.month_year, m.admission_number, m.form, m.class_name,
			m.total_days, m.days_present, m.days_absent, m.days_late, m.days_excused,
			m.attendance_percentage, m.homework_completion_rate, m.uniform_compliance_rate, m.books_brought_rate,
			m.average_participation, m.comments, m.updated_at,
			s.first_name, s.last_name, s.gender
		FROM monthly_attendance_summary m
		JOIN students s ON s.student_id = m.student_id` + w.String() + `
		ORDER BY m.attendance_percentage DESC, s.last_name, s.first_name, m.student_id`)

	entries := make([]attendance.SummaryEntry, 0)
	if err := sqlx.SelectContext(ctx, e, &entries, q, w.args...); err != nil {
		return nil, trapErr(err, "querying monthly summaries")
	}
	return entries, nil
}
