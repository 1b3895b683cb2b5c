package attendance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

// MonthlySummary is derived from a student's records of one month; it is recomputed, never edited.
// The day buckets overlap on purpose: a day with a present and a late session counts in both.
type MonthlySummary struct {
	StudentID       int64          `db:"student_id" json:"student_id"`
	AdmissionNumber string         `db:"admission_number" json:"admission_number"`
	MonthYear       core.MonthYear `db:"month_year" json:"month_year"`
	Form            int            `db:"form" json:"form"`
	ClassName       string         `db:"class_name" json:"class_name"`

	TotalDays   int `db:"total_days" json:"total_days"`
	DaysPresent int `db:"days_present" json:"days_present"` // at least one session Present
	DaysAbsent  int `db:"days_absent" json:"days_absent"`   // both sessions Absent
	DaysLate    int `db:"days_late" json:"days_late"`       // at least one session Late
	DaysExcused int `db:"days_excused" json:"days_excused"` // at least one session Excused

	AttendancePercentage   float64       `db:"attendance_percentage" json:"attendance_percentage"`
	HomeworkCompletionRate float64       `db:"homework_completion_rate" json:"homework_completion_rate"`
	UniformComplianceRate  float64       `db:"uniform_compliance_rate" json:"uniform_compliance_rate"`
	BooksBroughtRate       float64       `db:"books_brought_rate" json:"books_brought_rate"`
	AverageParticipation   Participation `db:"average_participation" json:"average_participation"`

	Comments  null.String `db:"comments" json:"comments"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

// SummaryEntry is a MonthlySummary joined with the student's name, as shown on reports.
type SummaryEntry struct {
	MonthlySummary
	FirstName string      `db:"first_name" json:"first_name"`
	LastName  string      `db:"last_name" json:"last_name"`
	Gender    null.String `db:"gender" json:"gender"`
}

// MarshalJSON adds the attendance status band to the entry.
func (e SummaryEntry) MarshalJSON() ([]byte, error) {
	type entry SummaryEntry
	return json.Marshal(struct {
		entry
		AttendanceStatus string `json:"attendance_status"`
	}{entry(e), e.AttendanceStatus()})
}

// AttendanceStatus bands the attendance percentage as shown on the monthly report:
// Excellent from 90, Good from 80, Fair from 70, Poor below.
func (s MonthlySummary) AttendanceStatus() string {
	switch p := s.AttendancePercentage; {
	case p >= 90:
		return "Excellent"
	case p >= 80:
		return "Good"
	case p >= 70:
		return "Fair"
	default:
		return "Poor"
	}
}

// SummaryFilter selects the summaries of a month (current month when empty), optionally of a form and/or class.
type SummaryFilter struct {
	Month     string `query:"month" json:"month" validate:"omitempty,month_year"`
	Form      int    `query:"form" json:"form" validate:"omitempty,min=1"`
	ClassName string `query:"class" json:"class" validate:"omitempty,max=50"`
}

func (f *SummaryFilter) Clean() {
	f.Month = core.CleanString(f.Month)
	f.ClassName = core.CleanString(f.ClassName)
}

// ReportStats are the headline figures of a monthly report.
type ReportStats struct {
	Month             string  `json:"month"`
	TotalStudents     int     `json:"total_students"`
	AverageAttendance float64 `json:"average_attendance"`
	PerfectAttendance int     `json:"perfect_attendance"`
}

// sessionFlags maps one session's status to the bucket it belongs to.
func sessionFlags(st Status) (present, absent, late, excused bool) {
	switch st {
	case StatusPresent:
		present = true
	case StatusAbsent:
		absent = true
	case StatusLate:
		late = true
	case StatusExcused:
		excused = true
	}
	return
}

// Summarize computes the derived fields of a month from its records.
// It returns false when there are no records: such a student gets no summary at all.
func Summarize(records []Record) (MonthlySummary, bool) {
	if len(records) == 0 {
		return MonthlySummary{}, false
	}

	var sum MonthlySummary
	var homework, uniform, books int
	participation := make(map[Participation]int, len(ParticipationLevels))

	for _, rec := range records {
		mPresent, mAbsent, mLate, mExcused := sessionFlags(rec.MorningStatus)
		aPresent, aAbsent, aLate, aExcused := sessionFlags(rec.AfternoonStatus)

		sum.TotalDays++
		if mPresent || aPresent {
			sum.DaysPresent++
		}
		if mAbsent && aAbsent {
			sum.DaysAbsent++
		}
		if mLate || aLate {
			sum.DaysLate++
		}
		if mExcused || aExcused {
			sum.DaysExcused++
		}

		if rec.CompletedHomework {
			homework++
		}
		if rec.UniformProper {
			uniform++
		}
		if rec.BooksBrought {
			books++
		}
		participation[rec.ParticipationLevel]++
	}

	sum.AttendancePercentage = core.Percentage(sum.DaysPresent, sum.TotalDays)
	sum.HomeworkCompletionRate = core.Percentage(homework, sum.TotalDays)
	sum.UniformComplianceRate = core.Percentage(uniform, sum.TotalDays)
	sum.BooksBroughtRate = core.Percentage(books, sum.TotalDays)
	sum.AverageParticipation = dominantParticipation(participation)
	return sum, true
}

// dominantParticipation returns the most frequent level; ties go to the better level.
func dominantParticipation(counts map[Participation]int) Participation {
	best, bestCount := ParticipationGood, 0
	for _, lvl := range ParticipationLevels {
		if counts[lvl] > bestCount {
			best, bestCount = lvl, counts[lvl]
		}
	}
	return best
}

func summaryComment(month core.MonthYear) null.String {
	return null.StringFrom(fmt.Sprintf("Monthly summary for %s", month))
}

// Stats computes the report headline figures of a month's summaries.
func Stats(month string, entries []SummaryEntry) ReportStats {
	stats := ReportStats{Month: month, TotalStudents: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	var total float64
	for _, e := range entries {
		total += e.AttendancePercentage
		if e.AttendancePercentage == 100 {
			stats.PerfectAttendance++
		}
	}
	stats.AverageAttendance = core.Round2(total / float64(len(entries)))
	return stats
}
