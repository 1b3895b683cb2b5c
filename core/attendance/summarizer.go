package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/student"
)

type (
	SummaryRepository interface {
		// UpsertSummary inserts s or overwrites every derived field of the summary with the same (student, month) key.
		UpsertSummary(ctx context.Context, s MonthlySummary, exec ...core.DBExecutor) error
		// QuerySummaries returns a month's summaries ordered by attendance percentage, highest first.
		QuerySummaries(ctx context.Context, month core.MonthYear, form int, className string, exec ...core.DBExecutor) ([]SummaryEntry, error)
	}

	RosterReader interface {
		QueryRoster(ctx context.Context, exec ...core.DBExecutor) ([]student.Student, error)
	}

	// SummaryCache caches QuerySummaries results per month.
	// Every InvalidateMonth bumps the month's version; entries read from the store at an older
	// version are never cached, so a fetch racing a regeneration cannot bring old rows back.
	SummaryCache interface {
		GetSummaries(ctx context.Context, month core.MonthYear, form int, className string) ([]SummaryEntry, bool, error)
		MonthVersion(ctx context.Context, month core.MonthYear) (int64, error)
		// SetSummaries is a no-op once the month was invalidated after version was read.
		SetSummaries(ctx context.Context, month core.MonthYear, version int64, form int, className string, entries []SummaryEntry) error
		InvalidateMonth(ctx context.Context, month core.MonthYear) error
	}

	// Summarizer materializes monthly summaries out of the ledger.
	Summarizer struct {
		db        core.DB
		roster    RosterReader
		records   Repository
		summaries SummaryRepository
		cache     SummaryCache
		validate  *validator.Validate
		logger    core.Logger
		conf      *core.Config

		genMu sync.Mutex // regenerations of this process run one at a time
	}
)

type SummarizerDeps struct {
	DB        core.DB
	Roster    RosterReader
	Records   Repository
	Summaries SummaryRepository
	Cache     SummaryCache // optional
	Validate  *validator.Validate
	Logger    core.Logger
	Conf      *core.Config
}

func NewSummarizer(deps SummarizerDeps) *Summarizer {
	cache := deps.Cache
	if cache == nil {
		cache = NopCache{}
	}
	return &Summarizer{
		db:        deps.DB,
		roster:    deps.Roster,
		records:   deps.Records,
		summaries: deps.Summaries,
		cache:     cache,
		validate:  deps.Validate,
		logger:    deps.Logger,
		conf:      deps.Conf,
	}
}

// ResolveMonth parses a "YYYY-MM" month; empty means the current month.
func (s *Summarizer) ResolveMonth(month string) (core.MonthYear, error) {
	month = core.CleanString(month)
	if month == "" {
		return s.conf.CurrentMonth(), nil
	}
	m, err := core.ParseMonthYear(month)
	if err != nil {
		return core.MonthYear{}, core.NewValidationError(err, core.FieldError{Field: "month", Error: err.Error()})
	}
	return m, nil
}

// GenerateSummary recomputes, from scratch, the summary of every rostered student with at least one
// record in the month ("YYYY-MM"; current month when empty) and returns how many were written.
// Either every summary of the run is committed or none is.
func (s *Summarizer) GenerateSummary(ctx context.Context, month string) (int, error) {
	m, err := s.ResolveMonth(month)
	if err != nil {
		return 0, err
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	var updated int
	err = core.RunInTx(ctx, s.db, func(exec core.DBExecutor) error {
		roster, err := s.roster.QueryRoster(ctx, exec)
		if err != nil {
			return errors.Wrap(err, "querying roster")
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, std := range roster {
			records, err := s.records.QueryByStudentRange(ctx, std.ID, m.Start(), m.End(), exec)
			if err != nil {
				return errors.Wrapf(err, "querying attendance of student %d", std.ID)
			}
			sum, ok := Summarize(records)
			if !ok {
				continue
			}

			sum.StudentID = std.ID
			sum.AdmissionNumber = std.AdmissionNumber
			sum.MonthYear = m
			sum.Form = std.Form.Int
			sum.ClassName = std.ClassName.String
			sum.Comments = summaryComment(m)
			sum.UpdatedAt = now

			if err = s.summaries.UpsertSummary(ctx, sum, exec); err != nil {
				return errors.Wrapf(err, "saving summary of student %d", std.ID)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("generating monthly summary failed", "month", m.String(), "error", err)
		return 0, err
	}

	if err = s.cache.InvalidateMonth(ctx, m); err != nil {
		s.logger.Warn("invalidating summary cache failed", "month", m.String(), "error", err)
	}
	s.logger.Info("monthly summary generated", "month", m.String(), "updated", updated)
	return updated, nil
}

// FetchSummary returns the summaries matching filter, highest attendance first.
func (s *Summarizer) FetchSummary(ctx context.Context, filter SummaryFilter) ([]SummaryEntry, error) {
	filter.Clean()
	if err := s.validate.Struct(filter); err != nil {
		return nil, err
	}
	m, err := s.ResolveMonth(filter.Month)
	if err != nil {
		return nil, err
	}

	if entries, ok, err := s.cache.GetSummaries(ctx, m, filter.Form, filter.ClassName); err != nil {
		s.logger.Warn("reading summary cache failed", "month", m.String(), "error", err)
	} else if ok {
		return entries, nil
	}

	// read before the store so a regeneration committed meanwhile is detected
	version, vErr := s.cache.MonthVersion(ctx, m)
	if vErr != nil {
		s.logger.Warn("reading summary cache version failed", "month", m.String(), "error", vErr)
	}

	entries, err := s.summaries.QuerySummaries(ctx, m, filter.Form, filter.ClassName)
	if err != nil {
		s.logger.Error("fetching monthly summary failed", "month", m.String(), "error", err)
		return nil, err
	}

	if vErr == nil {
		if err = s.cache.SetSummaries(ctx, m, version, filter.Form, filter.ClassName, entries); err != nil {
			s.logger.Warn("writing summary cache failed", "month", m.String(), "error", err)
		}
	}
	return entries, nil
}

// FetchStats returns the headline figures of the summaries matching filter.
func (s *Summarizer) FetchStats(ctx context.Context, filter SummaryFilter) (ReportStats, error) {
	m, err := s.ResolveMonth(filter.Month)
	if err != nil {
		return ReportStats{}, err
	}
	filter.Month = m.String()

	entries, err := s.FetchSummary(ctx, filter)
	if err != nil {
		return ReportStats{Month: filter.Month}, err
	}
	return Stats(filter.Month, entries), nil
}

// NopCache is used when no cache is configured.
type NopCache struct{}

var _ SummaryCache = NopCache{}

func (NopCache) GetSummaries(context.Context, core.MonthYear, int, string) ([]SummaryEntry, bool, error) {
	return nil, false, nil
}

func (NopCache) MonthVersion(context.Context, core.MonthYear) (int64, error) { return 0, nil }

func (NopCache) SetSummaries(context.Context, core.MonthYear, int64, int, string, []SummaryEntry) error {
	return nil
}

func (NopCache) InvalidateMonth(context.Context, core.MonthYear) error { return nil }
