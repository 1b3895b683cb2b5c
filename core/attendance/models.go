package attendance

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

// Status is the attendance status of a single session.
type Status uint8

const (
	StatusPresent Status = iota + 1
	StatusAbsent
	StatusLate
	StatusExcused
)

var (
	Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

	statusNames = map[Status]string{
		StatusPresent: "Present",
		StatusAbsent:  "Absent",
		StatusLate:    "Late",
		StatusExcused: "Excused",
	}
)

func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown attendance status %q", s)
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid attendance status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	st, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid attendance status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	}
	return fmt.Errorf("attendance.Status: cannot scan %T", src)
}

// Participation is a teacher's rating of a student's class participation.
// Levels are declared from best to worst; that order breaks ties when picking a month's dominant level.
type Participation uint8

const (
	ParticipationExcellent Participation = iota + 1
	ParticipationGood
	ParticipationFair
	ParticipationPoor
)

var (
	ParticipationLevels = []Participation{ParticipationExcellent, ParticipationGood, ParticipationFair, ParticipationPoor}

	participationNames = map[Participation]string{
		ParticipationExcellent: "Excellent",
		ParticipationGood:      "Good",
		ParticipationFair:      "Fair",
		ParticipationPoor:      "Poor",
	}
)

func ParseParticipation(s string) (Participation, error) {
	for p, name := range participationNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown participation level %q", s)
}

func (p Participation) Valid() bool {
	_, ok := participationNames[p]
	return ok
}

func (p Participation) String() string {
	if name, ok := participationNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Participation(%d)", uint8(p))
}

func (p Participation) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid participation level %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Participation) UnmarshalText(data []byte) error {
	lvl, err := ParseParticipation(string(data))
	if err != nil {
		return err
	}
	*p = lvl
	return nil
}

func (p Participation) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid participation level %d", uint8(p))
	}
	return p.String(), nil
}

func (p *Participation) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	}
	return fmt.Errorf("attendance.Participation: cannot scan %T", src)
}

// Record is the canonical attendance of one student on one day.
type Record struct {
	StudentID          int64         `db:"student_id" json:"student_id"`
	Date               core.Date     `db:"attendance_date" json:"attendance_date"`
	MorningStatus      Status        `db:"morning_status" json:"morning_status"`
	AfternoonStatus    Status        `db:"afternoon_status" json:"afternoon_status"`
	CompletedHomework  bool          `db:"completed_homework" json:"completed_homework"`
	UniformProper      bool          `db:"uniform_proper" json:"uniform_proper"`
	BooksBrought       bool          `db:"books_brought" json:"books_brought"`
	ParticipationLevel Participation `db:"participation_level" json:"participation_level"`
	TeacherNotes       null.String   `db:"teacher_notes" json:"teacher_notes"`
	RecordedBy         string        `db:"recorded_by" json:"recorded_by"`
	RecordedAt         time.Time     `db:"recorded_at" json:"recorded_at"` // UTC
}

// Entry is a Record joined with the student's identity, as shown on daily views.
type Entry struct {
	Record
	AdmissionNumber string      `db:"admission_number" json:"admission_number"`
	FirstName       string      `db:"first_name" json:"first_name"`
	LastName        string      `db:"last_name" json:"last_name"`
	Gender          null.String `db:"gender" json:"gender"`
	Form            null.Int    `db:"form" json:"form"`
	ClassName       null.String `db:"class_name" json:"class_name"`
}

// Observation is what a teacher submits for one student on a given day.
type Observation struct {
	StudentID          int64         `json:"student_id" validate:"required,gt=0"`
	MorningStatus      Status        `json:"morning_status" validate:"required,attendance_status"`
	AfternoonStatus    Status        `json:"afternoon_status" validate:"required,attendance_status"`
	CompletedHomework  bool          `json:"completed_homework"`
	UniformProper      bool          `json:"uniform_proper"`
	BooksBrought       bool          `json:"books_brought"`
	ParticipationLevel Participation `json:"participation_level" validate:"required,participation"`
	TeacherNotes       string        `json:"teacher_notes" validate:"max=2000"`
}

// NewBatch contains a class' observations for a single date.
type NewBatch struct {
	Date         core.Date     `json:"date"`
	RecordedBy   string        `json:"recorded_by" validate:"required,max=100"`
	Observations []Observation `json:"observations" validate:"required,min=1,dive"`
}

var errDuplicateStudent = errors.New("a student may only appear once per batch")

func (nb *NewBatch) Validate(validate *validator.Validate) error {
	nb.RecordedBy = core.CleanString(nb.RecordedBy)
	for i := range nb.Observations {
		nb.Observations[i].TeacherNotes = core.CleanString(nb.Observations[i].TeacherNotes)
	}

	if err := validate.Struct(nb); err != nil {
		return err
	}
	if nb.Date.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "this field is required"})
	}

	seen := make(map[int64]struct{}, len(nb.Observations))
	for _, obs := range nb.Observations {
		if _, ok := seen[obs.StudentID]; ok {
			return core.NewValidationError(
				errDuplicateStudent,
				core.FieldError{Field: "observations", Error: fmt.Sprintf("student %d: %v", obs.StudentID, errDuplicateStudent)},
			)
		}
		seen[obs.StudentID] = struct{}{}
	}
	return nil
}

// record builds the Record stored for obs.
func (nb *NewBatch) record(obs Observation, recordedAt time.Time) Record {
	return Record{
		StudentID:          obs.StudentID,
		Date:               nb.Date,
		MorningStatus:      obs.MorningStatus,
		AfternoonStatus:    obs.AfternoonStatus,
		CompletedHomework:  obs.CompletedHomework,
		UniformProper:      obs.UniformProper,
		BooksBrought:       obs.BooksBrought,
		ParticipationLevel: obs.ParticipationLevel,
		TeacherNotes:       null.NewString(obs.TeacherNotes, obs.TeacherNotes != ""),
		RecordedBy:         nb.RecordedBy,
		RecordedAt:         recordedAt,
	}
}

// DateFilter narrows a daily view; Form and ClassName are optional and combined with AND.
type DateFilter struct {
	Date      core.Date `query:"date"`
	Form      int       `query:"form"`
	ClassName string    `query:"class"`
}

func (f *DateFilter) Clean() {
	f.ClassName = core.CleanString(f.ClassName)
}
