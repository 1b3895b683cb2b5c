package classregister

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

// Register holds the static details of a class for one term.
type Register struct {
	Form         int    `db:"form" json:"form" validate:"required,min=1,max=6"`
	ClassName    string `db:"class_name" json:"class_name" validate:"required,max=50"`
	AcademicYear string `db:"academic_year" json:"academic_year" validate:"required,academic_year"`
	Term         int    `db:"term" json:"term" validate:"required,min=1,max=3"`

	TotalStudents    int         `db:"total_students" json:"total_students" validate:"min=0"`
	ClassTeacher     null.String `db:"class_teacher" json:"class_teacher" validate:"omitempty,max=100"`
	ClassPrefect     null.String `db:"class_prefect" json:"class_prefect" validate:"omitempty,max=100"`
	AssistantPrefect null.String `db:"assistant_prefect" json:"assistant_prefect" validate:"omitempty,max=100"`

	AverageAttendance float64     `db:"average_attendance" json:"average_attendance" validate:"min=0,max=100"`
	TopPerformer      null.String `db:"top_performer" json:"top_performer" validate:"omitempty,max=100"`
	MostImproved      null.String `db:"most_improved" json:"most_improved" validate:"omitempty,max=100"`

	ClassGoals   null.String `db:"class_goals" json:"class_goals"`
	SpecialNotes null.String `db:"special_notes" json:"special_notes"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"` // UTC
}

// Key identifies a Register.
type Key struct {
	Form         int    `param:"form" json:"form" validate:"required,min=1"`
	ClassName    string `param:"class" json:"class_name" validate:"required"`
	AcademicYear string `param:"year" json:"academic_year" validate:"required,academic_year"`
	Term         int    `param:"term" json:"term" validate:"required,min=1,max=3"`
}

func (r *Register) Key() Key {
	return Key{Form: r.Form, ClassName: r.ClassName, AcademicYear: r.AcademicYear, Term: r.Term}
}

// Validate cleans r before validating it; empty optional texts are stored as NULL.
func (r *Register) Validate(validate *validator.Validate) error {
	r.ClassName = core.CleanString(r.ClassName)
	r.AcademicYear = core.CleanString(r.AcademicYear)
	for _, s := range []*null.String{
		&r.ClassTeacher, &r.ClassPrefect, &r.AssistantPrefect,
		&r.TopPerformer, &r.MostImproved, &r.ClassGoals, &r.SpecialNotes,
	} {
		cleanNullString(s)
	}
	r.AverageAttendance = core.Round2(r.AverageAttendance)
	return validate.Struct(r)
}

func cleanNullString(s *null.String) {
	if !s.Valid {
		return
	}
	s.String = core.CleanString(s.String)
	s.Valid = s.String != ""
}
