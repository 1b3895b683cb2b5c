package student

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

// Student is a read-only view of the school's students table.
type Student struct {
	ID              int64       `db:"student_id" json:"student_id" validate:"required,gt=0"`
	AdmissionNumber string      `db:"admission_number" json:"admission_number" validate:"required,max=20"`
	FirstName       string      `db:"first_name" json:"first_name" validate:"required,max=100"`
	LastName        string      `db:"last_name" json:"last_name" validate:"required,max=100"`
	Gender          null.String `db:"gender" json:"gender" validate:"omitempty,max=10"`
	Form            null.Int    `db:"form" json:"form" validate:"omitempty,min=1,max=6"`
	ClassName       null.String `db:"class_name" json:"class_name" validate:"omitempty,max=50"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Validate cleans s before validating it.
func (s *Student) Validate(validate *validator.Validate) error {
	s.AdmissionNumber = core.CleanString(s.AdmissionNumber)
	s.FirstName = core.CleanString(s.FirstName)
	s.LastName = core.CleanString(s.LastName)
	if s.ClassName.Valid {
		s.ClassName.String = core.CleanString(s.ClassName.String)
	}
	return validate.Struct(s)
}

type Class struct {
	Form      int    `db:"form" json:"form"`
	ClassName string `db:"class_name" json:"class_name"`
}

func (c Class) String() string {
	return fmt.Sprintf("Form %d %s", c.Form, c.ClassName)
}
