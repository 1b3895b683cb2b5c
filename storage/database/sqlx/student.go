package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/student"
)

const studentColumns = `student_id, admission_number, first_name, last_name, gender, form, class_name`

type studentRepository struct {
	repository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{repository{exec: exec}}
}

func (repo studentRepository) QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]student.Class, error) {
	q := `SELECT DISTINCT form, class_name FROM students
		WHERE form IS NOT NULL AND class_name IS NOT NULL
		ORDER BY form, class_name`

	classes := make([]student.Class, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &classes, q); err != nil {
		return nil, trapErr(err, "querying classes")
	}
	return classes, nil
}

func (repo studentRepository) QueryClassStudents(ctx context.Context, form int, className string, exec ...core.DBExecutor) ([]student.Student, error) {
	e := repo.getExec(exec)
	q := e.Rebind(`SELECT ` + studentColumns + ` FROM students
		WHERE form = ? AND class_name = ?
		ORDER BY last_name, first_name, student_id`)

	students := make([]student.Student, 0)
	if err := sqlx.SelectContext(ctx, e, &students, q, form, className); err != nil {
		return nil, trapErr(err, "querying class students")
	}
	return students, nil
}

func (repo studentRepository) QueryRoster(ctx context.Context, exec ...core.DBExecutor) ([]student.Student, error) {
	q := `SELECT ` + studentColumns + ` FROM students
		WHERE form IS NOT NULL
		ORDER BY form, class_name, last_name, first_name, student_id`

	students := make([]student.Student, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &students, q); err != nil {
		return nil, trapErr(err, "querying roster")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error) {
	e := repo.getExec(exec)
	q := e.Rebind(`SELECT ` + studentColumns + ` FROM students WHERE student_id = ?`)

	var std student.Student
	if err := sqlx.GetContext(ctx, e, &std, q, id); err != nil {
		return student.Student{}, trapErr(err, "getting student")
	}
	return std, nil
}

func (repo studentRepository) UpsertStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) error {
	q := `INSERT INTO students (` + studentColumns + `)
		VALUES (:student_id, :admission_number, :first_name, :last_name, :gender, :form, :class_name)
		ON CONFLICT (student_id) DO UPDATE SET
			admission_number = excluded.admission_number,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			gender = excluded.gender,
			form = excluded.form,
			class_name = excluded.class_name`

	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, std); err != nil {
		return trapErr(err, "saving student")
	}
	return nil
}
