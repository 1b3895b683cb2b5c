package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
)

const recordColumns = `student_id, attendance_date, morning_status, afternoon_status,
	completed_homework, uniform_proper, books_brought, participation_level,
	teacher_notes, recorded_by, recorded_at`

// The update only happens when an observed field differs, so RowsAffected reports actual changes.
const upsertRecordQuery = `INSERT INTO daily_attendance (` + recordColumns + `)
	VALUES (:student_id, :attendance_date, :morning_status, :afternoon_status,
		:completed_homework, :uniform_proper, :books_brought, :participation_level,
		:teacher_notes, :recorded_by, :recorded_at)
	ON CONFLICT (student_id, attendance_date) DO UPDATE SET
		morning_status = excluded.morning_status,
		afternoon_status = excluded.afternoon_status,
		completed_homework = excluded.completed_homework,
		uniform_proper = excluded.uniform_proper,
		books_brought = excluded.books_brought,
		participation_level = excluded.participation_level,
		teacher_notes = excluded.teacher_notes,
		recorded_by = excluded.recorded_by,
		recorded_at = excluded.recorded_at
	WHERE daily_attendance.morning_status IS DISTINCT FROM excluded.morning_status
		OR daily_attendance.afternoon_status IS DISTINCT FROM excluded.afternoon_status
		OR daily_attendance.completed_homework IS DISTINCT FROM excluded.completed_homework
		OR daily_attendance.uniform_proper IS DISTINCT FROM excluded.uniform_proper
		OR daily_attendance.books_brought IS DISTINCT FROM excluded.books_brought
		OR daily_attendance.participation_level IS DISTINCT FROM excluded.participation_level
		OR daily_attendance.teacher_notes IS DISTINCT FROM excluded.teacher_notes
		OR daily_attendance.recorded_by IS DISTINCT FROM excluded.recorded_by`

type attendanceRepository struct {
	repository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{repository{exec: exec}}
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (bool, error) {
	res, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), upsertRecordQuery, rec)
	if err != nil {
		return false, trapErr(err, "upserting attendance record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, trapErr(err, "counting upserted attendance records")
	}
	return n > 0, nil
}

func (repo attendanceRepository) QueryByDate(ctx context.Context, filter attendance.DateFilter, exec ...core.DBExecutor) ([]attendance.Entry, error) {
	var w where
	w.and("a.attendance_date = ?", filter.Date)
	if filter.Form > 0 {
		w.and("s.form = ?", filter.Form)
	}
	if filter.ClassName != "" {
		w.and("s.class_name = ?", filter.ClassName)
	}

	e := repo.getExec(exec)
	q := e.Rebind(`SELECT a.student_id, a.attendance_date, a.morning_status, a.afternoon_status,
			a.completed_homework, a.uniform_proper, a.books_brought, a.participation_level,
			a.teacher_notes, a.recorded_by, a.recorded_at,
			s.admission_number, s.first_name, s.last_name, s.gender, s.form, s.class_name
		FROM daily_attendance a
		JOIN students s ON s.student_id = a.student_id` + w.String() + `
		ORDER BY s.last_name, s.first_name, a.student_id`)

	entries := make([]attendance.Entry, 0)
	if err := sqlx.SelectContext(ctx, e, &entries, q, w.args...); err != nil {
		return nil, trapErr(err, "querying attendance by date")
	}
	return entries, nil
}

func (repo attendanceRepository) QueryByStudentRange(ctx context.Context, studentID int64, start, end core.Date, exec ...core.DBExecutor) ([]attendance.Record, error) {
	e := repo.getExec(exec)
	q := e.Rebind(`SELECT ` + recordColumns + ` FROM daily_attendance
		WHERE student_id = ? AND attendance_date >= ? AND attendance_date < ?
		ORDER BY attendance_date`)

	records := make([]attendance.Record, 0)
	if err := sqlx.SelectContext(ctx, e, &records, q, studentID, start, end); err != nil {
		return nil, trapErr(err, "querying attendance by student")
	}
	return records, nil
}
