package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/classregister"
)

const registerColumns = `form, class_name, academic_year, term, total_students,
	class_teacher, class_prefect, assistant_prefect,
	average_attendance, top_performer, most_improved,
	class_goals, special_notes, created_at`

type classRegisterRepository struct {
	repository
}

var _ classregister.Repository = (*classRegisterRepository)(nil) // interface compliance check

func NewClassRegisterRepository(exec core.DBExecutor) *classRegisterRepository {
	return &classRegisterRepository{repository{exec: exec}}
}

func (repo classRegisterRepository) UpsertRegister(ctx context.Context, reg classregister.Register, exec ...core.DBExecutor) error {
	q := `INSERT INTO class_register (` + registerColumns + `)
		VALUES (:form, :class_name, :academic_year, :term, :total_students,
			:class_teacher, :class_prefect, :assistant_prefect,
			:average_attendance, :top_performer, :most_improved,
			:class_goals, :special_notes, :created_at)
		ON CONFLICT (form, class_name, academic_year, term) DO UPDATE SET
			total_students = excluded.total_students,
			class_teacher = excluded.class_teacher,
			class_prefect = excluded.class_prefect,
			assistant_prefect = excluded.assistant_prefect,
			average_attendance = excluded.average_attendance,
			top_performer = excluded.top_performer,
			most_improved = excluded.most_improved,
			class_goals = excluded.class_goals,
			special_notes = excluded.special_notes`

	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, reg); err != nil {
		return trapErr(err, "upserting class register")
	}
	return nil
}

func (repo classRegisterRepository) GetRegister(ctx context.Context, key classregister.Key, exec ...core.DBExecutor) (classregister.Register, error) {
	e := repo.getExec(exec)
	q := e.Rebind(`SELECT ` + registerColumns + ` FROM class_register
		WHERE form = ? AND class_name = ? AND academic_year = ? AND term = ?`)

	var reg classregister.Register
	if err := sqlx.GetContext(ctx, e, &reg, q, key.Form, key.ClassName, key.AcademicYear, key.Term); err != nil {
		return classregister.Register{}, trapErr(err, "getting class register")
	}
	return reg, nil
}
