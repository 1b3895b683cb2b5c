package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
)

type (
	// Repository is the store of daily attendance records.
	Repository interface {
		// UpsertRecord inserts rec, or overwrites every mutable field of the record with the same
		// (student, date) key. It reports whether the stored state changed:
		// resubmitting an identical record is a no-op.
		UpsertRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (bool, error)
		// QueryByDate applies AND on the filter fields, ordered by last name then first name.
		QueryByDate(ctx context.Context, filter DateFilter, exec ...core.DBExecutor) ([]Entry, error)
		// QueryByStudentRange returns a student's records within [start, end), oldest first.
		QueryByStudentRange(ctx context.Context, studentID int64, start, end core.Date, exec ...core.DBExecutor) ([]Record, error)
	}

	// Ledger owns the one authoritative attendance record per student per day.
	Ledger struct {
		db       core.DB
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
		conf     *core.Config
	}
)

func NewLedger(db core.DB, repo Repository, validate *validator.Validate, logger core.Logger, conf *core.Config) *Ledger {
	return &Ledger{
		db:       db,
		repo:     repo,
		validate: validate,
		logger:   logger,
		conf:     conf,
	}
}

// RecordBatch upserts every observation of the batch in a single transaction (last write wins)
// and returns how many of them changed the stored records.
// On any failure the whole batch is rolled back and 0 is returned.
func (l *Ledger) RecordBatch(ctx context.Context, batch NewBatch) (int, error) {
	if err := batch.Validate(l.validate); err != nil {
		return 0, err
	}

	recordedAt := time.Now().UTC().Truncate(time.Microsecond)
	var changed int
	err := core.RunInTx(ctx, l.db, func(exec core.DBExecutor) error {
		for _, obs := range batch.Observations {
			ok, err := l.repo.UpsertRecord(ctx, batch.record(obs, recordedAt), exec)
			if err != nil {
				return errors.Wrapf(err, "recording attendance of student %d", obs.StudentID)
			}
			if ok {
				changed++
			}
		}
		return nil
	})
	if err != nil {
		l.logger.Error("recording attendance failed", "date", batch.Date.String(), "recorded_by", batch.RecordedBy, "error", err)
		return 0, err
	}

	l.logger.Info(
		"attendance recorded",
		"date", batch.Date.String(),
		"recorded_by", batch.RecordedBy,
		"observations", len(batch.Observations),
		"changed", changed,
	)
	return changed, nil
}

// QueryByDate returns the day's records joined with student identities.
// A zero filter date means today in the school's time zone.
func (l *Ledger) QueryByDate(ctx context.Context, filter DateFilter) ([]Entry, error) {
	filter.Clean()
	if filter.Date.IsZero() {
		filter.Date = l.conf.Today()
	}
	entries, err := l.repo.QueryByDate(ctx, filter)
	if err != nil {
		l.logger.Error("querying attendance failed", "date", filter.Date.String(), "error", err)
		return nil, err
	}
	return entries, nil
}

// QueryByStudentRange returns a student's records within the half-open interval [start, end).
func (l *Ledger) QueryByStudentRange(ctx context.Context, studentID int64, start, end core.Date) ([]Record, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, core.NewValidationError(
			errors.New("start must be before end"),
			core.FieldError{Field: "from", Error: "must be before to"},
		)
	}
	records, err := l.repo.QueryByStudentRange(ctx, studentID, start, end)
	if err != nil {
		l.logger.Error("querying student attendance failed", "student_id", studentID, "error", err)
		return nil, err
	}
	return records, nil
}
