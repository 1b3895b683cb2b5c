package incident

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var csvHeader = []string{
	"incident_id",
	"incident_date",
	"student_id",
	"admission_number",
	"first_name",
	"last_name",
	"form",
	"class_name",
	"incident_type",
	"incident_category",
	"description",
	"action_taken",
	"recorded_by",
}

// WriteCSV writes one row per incident, preceded by a header row.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	for _, e := range entries {
		var form string
		if e.Form.Valid {
			form = strconv.Itoa(e.Form.Int)
		}
		row := []string{
			e.ID,
			e.Date.String(),
			strconv.FormatInt(e.StudentID, 10),
			e.AdmissionNumber,
			e.FirstName,
			e.LastName,
			form,
			e.ClassName.String,
			string(e.Type),
			e.Category.String,
			e.Description,
			e.ActionTaken.String,
			e.RecordedBy,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing csv row of incident %s", e.ID)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
