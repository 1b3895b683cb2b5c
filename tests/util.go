package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	"github.com/trezcool/register/core/incident"
	"github.com/trezcool/register/core/student"
	"github.com/trezcool/register/storage/database"
	sqlxrepos "github.com/trezcool/register/storage/database/sqlx"
)

// NewConfig returns a TEST config backed by a fresh SQLite file.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		Env:      "TEST",
		Build:    "test",
		AppName:  "Register",
		TestMode: true,
		Location: time.UTC,
		Server: core.ServerConfig{
			DisableReqLogs:  true,
			ShutdownTimeout: time.Second,
		},
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "register.db"),
		},
	}
}

// PrepareDB opens a migrated database, closed when the test ends.
func PrepareDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	t.Helper()

	var c *core.Config
	if len(conf) > 0 {
		c = conf[0]
	} else {
		c = NewConfig(t)
	}

	database.SetLogger(core.NopLogger{})
	db, err := database.Open(c)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db, c); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// NewValidator returns a validator with every package's custom validations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	attendance.InitValidators(validate, translator)
	incident.InitValidators(validate, translator)
	return validate, translator
}

func CreateStudent(t *testing.T, db core.DBExecutor, id int64, admNo, firstName, lastName string, form int, className string) student.Student {
	t.Helper()

	std := student.Student{
		ID:              id,
		AdmissionNumber: admNo,
		FirstName:       firstName,
		LastName:        lastName,
		Form:            null.NewInt(form, form > 0),
		ClassName:       null.NewString(className, className != ""),
	}
	if err := sqlxrepos.NewStudentRepository(db).UpsertStudent(context.Background(), std); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

// Observation builds a valid observation of studentID; homework is the only varying flag.
func Observation(studentID int64, morning, afternoon attendance.Status, homework bool) attendance.Observation {
	return attendance.Observation{
		StudentID:          studentID,
		MorningStatus:      morning,
		AfternoonStatus:    afternoon,
		CompletedHomework:  homework,
		UniformProper:      true,
		BooksBrought:       true,
		ParticipationLevel: attendance.ParticipationGood,
	}
}
