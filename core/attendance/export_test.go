package attendance

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/register/core"
)

func TestWriteSummariesCSV(t *testing.T) {
	entries := []SummaryEntry{
		{
			MonthlySummary: MonthlySummary{
				StudentID:              1,
				AdmissionNumber:        "ADM001",
				MonthYear:              core.MonthYear{Year: 2024, Month: time.March},
				Form:                   2,
				ClassName:              "East",
				TotalDays:              3,
				DaysPresent:            2,
				DaysAbsent:             1,
				DaysLate:               1,
				AttendancePercentage:   66.67,
				HomeworkCompletionRate: 66.67,
				UniformComplianceRate:  100,
				BooksBroughtRate:       0,
				AverageParticipation:   ParticipationGood,
				Comments:               null.StringFrom("Monthly summary for 2024-03"),
			},
			FirstName: "Amani",
			LastName:  "Kamau, Jr.",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummariesCSV(&buf, entries))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, summaryCSVHeader, rows[0])
	assert.Equal(t, []string{
		"1", "ADM001", "Amani", "Kamau, Jr.", "2", "East", "2024-03",
		"3", "2", "1", "1", "0",
		"66.67", "Poor", "66.67", "100.00", "0.00", "Good", "Monthly summary for 2024-03",
	}, rows[1])
}

func TestWriteSummariesCSV_empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummariesCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
