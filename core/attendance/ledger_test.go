package attendance_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	sqlxrepos "github.com/trezcool/register/storage/database/sqlx"
	"github.com/trezcool/register/tests"
)

var march1 = core.NewDate(2024, time.March, 1)

func newLedger(t *testing.T) (*attendance.Ledger, *sqlx.DB) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDB(t, conf)
	validate, _ := testutil.NewValidator()

	testutil.CreateStudent(t, db, 1, "ADM001", "Amani", "Kamau", 2, "East")
	testutil.CreateStudent(t, db, 2, "ADM002", "Baraka", "Otieno", 2, "East")
	testutil.CreateStudent(t, db, 3, "ADM003", "Chiku", "Achieng", 2, "West")

	ledger := attendance.NewLedger(db, sqlxrepos.NewAttendanceRepository(db), validate, core.NopLogger{}, conf)
	return ledger, db
}

func countRecords(t *testing.T, db *sqlx.DB) int {
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM daily_attendance"))
	return n
}

func TestLedger_RecordBatch(t *testing.T) {
	ledger, db := newLedger(t)
	ctx := context.Background()

	batch := attendance.NewBatch{
		Date:       march1,
		RecordedBy: "Mr. Otieno",
		Observations: []attendance.Observation{
			testutil.Observation(1, attendance.StatusPresent, attendance.StatusPresent, true),
			testutil.Observation(2, attendance.StatusAbsent, attendance.StatusAbsent, false),
		},
	}
	changed, err := ledger.RecordBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = ledger.RecordBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, changed, "resubmitting the same batch should change nothing")
	assert.Equal(t, 2, countRecords(t, db))

	batch.Observations[1] = testutil.Observation(2, attendance.StatusLate, attendance.StatusPresent, true)
	changed, err = ledger.RecordBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	entries, err := ledger.QueryByDate(ctx, attendance.DateFilter{Date: march1})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, attendance.StatusLate, entries[1].MorningStatus, "last write wins")
	assert.True(t, entries[1].CompletedHomework)
}

func TestLedger_RecordBatch_partialChanges(t *testing.T) {
	ledger, db := newLedger(t)
	ctx := context.Background()

	for id := int64(4); id <= 10; id++ {
		testutil.CreateStudent(t, db, id, fmt.Sprintf("ADM%03d", id), "Student", "Number", 3, "North")
	}

	obs := make([]attendance.Observation, 0, 10)
	for id := int64(1); id <= 10; id++ {
		obs = append(obs, testutil.Observation(id, attendance.StatusPresent, attendance.StatusPresent, true))
	}
	batch := attendance.NewBatch{Date: march1, RecordedBy: "Mrs. Wanjiru", Observations: obs}

	changed, err := ledger.RecordBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 10, changed)

	for i := 3; i < 10; i++ {
		batch.Observations[i].CompletedHomework = false
	}
	changed, err = ledger.RecordBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 7, changed)
	assert.Equal(t, 10, countRecords(t, db))
}

func TestLedger_RecordBatch_atomic(t *testing.T) {
	ledger, db := newLedger(t)

	batch := attendance.NewBatch{
		Date:       march1,
		RecordedBy: "Mr. Otieno",
		Observations: []attendance.Observation{
			testutil.Observation(1, attendance.StatusPresent, attendance.StatusPresent, true),
			testutil.Observation(404, attendance.StatusPresent, attendance.StatusPresent, true),
			testutil.Observation(2, attendance.StatusPresent, attendance.StatusPresent, true),
		},
	}
	changed, err := ledger.RecordBatch(context.Background(), batch)
	if assert.Error(t, err) {
		assert.True(t, core.IsPersistenceError(err), "got %T: %v", err, err)
		assert.True(t, errors.Is(err, core.ErrStudentNotFound), "got %v", err)
	}
	assert.Equal(t, 0, changed)
	assert.Equal(t, 0, countRecords(t, db), "nothing of the failed batch should be stored")
}

func TestLedger_RecordBatch_invalid(t *testing.T) {
	ledger, db := newLedger(t)

	tests := []struct {
		name  string
		batch attendance.NewBatch
	}{
		{name: "empty", batch: attendance.NewBatch{Date: march1, RecordedBy: "Mr. Otieno"}},
		{name: "no date", batch: attendance.NewBatch{
			RecordedBy:   "Mr. Otieno",
			Observations: []attendance.Observation{testutil.Observation(1, attendance.StatusPresent, attendance.StatusPresent, true)},
		}},
		{name: "duplicate", batch: attendance.NewBatch{
			Date:       march1,
			RecordedBy: "Mr. Otieno",
			Observations: []attendance.Observation{
				testutil.Observation(1, attendance.StatusPresent, attendance.StatusPresent, true),
				testutil.Observation(1, attendance.StatusAbsent, attendance.StatusAbsent, true),
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := ledger.RecordBatch(context.Background(), tt.batch)
			if !core.IsValidationError(err) {
				t.Errorf("failed! expected a validation error, got %v", err)
			}
			assert.Equal(t, 0, changed)
		})
	}
	assert.Equal(t, 0, countRecords(t, db))
}

func TestLedger_QueryByDate(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	_, err := ledger.RecordBatch(ctx, attendance.NewBatch{
		Date:       march1,
		RecordedBy: "Mr. Otieno",
		Observations: []attendance.Observation{
			testutil.Observation(1, attendance.StatusPresent, attendance.StatusPresent, true),
			testutil.Observation(2, attendance.StatusPresent, attendance.StatusAbsent, true),
			testutil.Observation(3, attendance.StatusExcused, attendance.StatusExcused, false),
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter attendance.DateFilter
		want   []int64
	}{
		{name: "whole day", filter: attendance.DateFilter{Date: march1}, want: []int64{3, 1, 2}},
		{name: "form", filter: attendance.DateFilter{Date: march1, Form: 2}, want: []int64{3, 1, 2}},
		{name: "class", filter: attendance.DateFilter{Date: march1, ClassName: " East "}, want: []int64{1, 2}},
		{name: "form and class", filter: attendance.DateFilter{Date: march1, Form: 1, ClassName: "East"}, want: []int64{}},
		{name: "other day", filter: attendance.DateFilter{Date: core.NewDate(2024, time.March, 2)}, want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ledger.QueryByDate(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]int64, 0, len(entries))
			for _, e := range entries {
				got = append(got, e.StudentID)
			}
			if !assert.Equal(t, tt.want, got) {
				t.Errorf("failed! entries should be ordered by last name then first name")
			}
		})
	}

	entries, err := ledger.QueryByDate(ctx, attendance.DateFilter{Date: march1, ClassName: "West"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ADM003", entries[0].AdmissionNumber)
	assert.Equal(t, "Achieng", entries[0].LastName)
	assert.Equal(t, 2, entries[0].Form.Int)
	assert.Equal(t, "Mr. Otieno", entries[0].RecordedBy)
	assert.False(t, entries[0].RecordedAt.IsZero())
}

func TestLedger_QueryByStudentRange(t *testing.T) {
	ledger, _ := newLedger(t)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		_, err := ledger.RecordBatch(ctx, attendance.NewBatch{
			Date:         core.NewDate(2024, time.March, day),
			RecordedBy:   "Mr. Otieno",
			Observations: []attendance.Observation{testutil.Observation(1, attendance.StatusPresent, attendance.StatusPresent, true)},
		})
		require.NoError(t, err)
	}

	records, err := ledger.QueryByStudentRange(ctx, 1, core.NewDate(2024, time.March, 2), core.NewDate(2024, time.March, 5))
	require.NoError(t, err)
	require.Len(t, records, 3, "the end date is excluded")
	for i, rec := range records {
		assert.Equal(t, core.NewDate(2024, time.March, i+2), rec.Date)
	}

	records, err = ledger.QueryByStudentRange(ctx, 2, core.NewDate(2024, time.March, 1), core.NewDate(2024, time.April, 1))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = ledger.QueryByStudentRange(ctx, 1, march1, march1)
	assert.True(t, core.IsValidationError(err), "an empty range should be rejected")
}
