package attendance

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var summaryCSVHeader = []string{
	"student_id",
	"admission_number",
	"first_name",
	"last_name",
	"form",
	"class_name",
	"month_year",
	"total_days",
	"days_present",
	"days_absent",
	"days_late",
	"days_excused",
	"attendance_percentage",
	"attendance_status",
	"homework_completion_rate",
	"uniform_compliance_rate",
	"books_brought_rate",
	"average_participation",
	"comments",
}

// WriteSummariesCSV writes one row per student per month, preceded by a header row.
func WriteSummariesCSV(w io.Writer, entries []SummaryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryCSVHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	for _, e := range entries {
		row := []string{
			strconv.FormatInt(e.StudentID, 10),
			e.AdmissionNumber,
			e.FirstName,
			e.LastName,
			strconv.Itoa(e.Form),
			e.ClassName,
			e.MonthYear.String(),
			strconv.Itoa(e.TotalDays),
			strconv.Itoa(e.DaysPresent),
			strconv.Itoa(e.DaysAbsent),
			strconv.Itoa(e.DaysLate),
			strconv.Itoa(e.DaysExcused),
			formatRate(e.AttendancePercentage),
			e.AttendanceStatus(),
			formatRate(e.HomeworkCompletionRate),
			formatRate(e.UniformComplianceRate),
			formatRate(e.BooksBroughtRate),
			e.AverageParticipation.String(),
			e.Comments.String,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing csv row of student %d", e.StudentID)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
