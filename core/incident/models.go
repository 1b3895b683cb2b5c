package incident

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

// Type tells whether an incident reflects well or badly on the student.
type Type string

const (
	TypePositive Type = "Positive"
	TypeNegative Type = "Negative"
	TypeNeutral  Type = "Neutral"
)

var Types = []Type{TypePositive, TypeNegative, TypeNeutral}

func (t Type) Valid() bool {
	switch t {
	case TypePositive, TypeNegative, TypeNeutral:
		return true
	default:
		return false
	}
}

func (t Type) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid incident type %q", string(t))
	}
	return string(t), nil
}

type Incident struct {
	ID          string      `db:"incident_id" json:"id"`
	StudentID   int64       `db:"student_id" json:"student_id"`
	Date        core.Date   `db:"incident_date" json:"incident_date"`
	Type        Type        `db:"incident_type" json:"incident_type"`
	Category    null.String `db:"incident_category" json:"incident_category"`
	Description string      `db:"description" json:"description"`
	ActionTaken null.String `db:"action_taken" json:"action_taken"`
	RecordedBy  string      `db:"recorded_by" json:"recorded_by"`
	RecordedAt  time.Time   `db:"recorded_at" json:"recorded_at"` // UTC
}

// Entry is an Incident joined with the student's identity.
type Entry struct {
	Incident
	AdmissionNumber string      `db:"admission_number" json:"admission_number"`
	FirstName       string      `db:"first_name" json:"first_name"`
	LastName        string      `db:"last_name" json:"last_name"`
	Form            null.Int    `db:"form" json:"form"`
	ClassName       null.String `db:"class_name" json:"class_name"`
}

// NewIncident contains information needed to log an Incident.
type NewIncident struct {
	StudentID   int64     `json:"student_id" validate:"required,gt=0"`
	Date        core.Date `json:"incident_date"`
	Type        Type      `json:"incident_type" validate:"required,incident_type"`
	Category    string    `json:"incident_category" validate:"max=100"`
	Description string    `json:"description" validate:"required"`
	ActionTaken string    `json:"action_taken"`
	RecordedBy  string    `json:"recorded_by" validate:"required,max=100"`
}

func (ni *NewIncident) Validate(validate *validator.Validate) error {
	ni.Category = core.CleanString(ni.Category)
	ni.Description = core.CleanString(ni.Description)
	ni.ActionTaken = core.CleanString(ni.ActionTaken)
	ni.RecordedBy = core.CleanString(ni.RecordedBy)

	if err := validate.Struct(ni); err != nil {
		return err
	}
	if ni.Date.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "incident_date", Error: "this field is required"})
	}
	return nil
}

// QueryFilter applies AND on its set fields.
type QueryFilter struct {
	StudentID int64  `query:"student_id"`
	Form      int    `query:"form"`
	ClassName string `query:"class"`
}

func (qf *QueryFilter) Clean() {
	qf.ClassName = core.CleanString(qf.ClassName)
}
