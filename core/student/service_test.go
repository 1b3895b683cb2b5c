package student_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/student"
	sqlxrepos "github.com/trezcool/register/storage/database/sqlx"
	"github.com/trezcool/register/tests"
)

func newService(t *testing.T) (*student.Service, *sqlx.DB) {
	db := testutil.PrepareDB(t)
	validate, _ := testutil.NewValidator()
	return student.NewService(db, sqlxrepos.NewStudentRepository(db), validate, core.NopLogger{}), db
}

func TestService_ClassStudents(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	testutil.CreateStudent(t, db, 1, "ADM001", "Baraka", "Otieno", 2, "East")
	testutil.CreateStudent(t, db, 2, "ADM002", "Amani", "Kamau", 2, "East")
	testutil.CreateStudent(t, db, 3, "ADM003", "Chiku", "Achieng", 3, "West")

	classes, err := svc.Classes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Class{{Form: 2, ClassName: "East"}, {Form: 3, ClassName: "West"}}, classes)

	students, err := svc.ClassStudents(ctx, 2, " East ")
	require.NoError(t, err)
	if assert.Len(t, students, 2) {
		assert.Equal(t, "Kamau", students[0].LastName)
		assert.Equal(t, "Otieno", students[1].LastName)
	}
}

func TestService_Import(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	n, err := svc.Import(ctx, []student.Student{
		{ID: 1, AdmissionNumber: " ADM001 ", FirstName: "Amani", LastName: "Kamau", Form: null.IntFrom(2), ClassName: null.StringFrom("East")},
		{ID: 2, AdmissionNumber: "ADM002", FirstName: "Baraka", LastName: "Otieno"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ADM001", got.AdmissionNumber)

	// an invalid student aborts the whole import
	n, err = svc.Import(ctx, []student.Student{
		{ID: 3, AdmissionNumber: "ADM003", FirstName: "Chiku", LastName: "Achieng"},
		{ID: 4, AdmissionNumber: "ADM004", LastName: "Wanjiru"},
	})
	assert.Error(t, err)
	assert.True(t, core.IsValidationError(err))
	assert.Zero(t, n)

	_, err = svc.Get(ctx, 3)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("failed! expected ErrNotFound, got %v", err)
	}
}
