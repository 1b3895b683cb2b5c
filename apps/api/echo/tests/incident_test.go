package tests

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/register/core/incident"
)

func Test_incidentApi(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/incidents", []byte(`{
		"student_id": 3,
		"incident_date": "2024-03-04",
		"incident_type": "Positive",
		"incident_category": "Leadership",
		"description": "Organised the class clean-up",
		"recorded_by": "Mrs. Wanjiru"
	}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created incident.Incident
	unmarshalBody(t, rec, &created)
	_, err := uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Leadership", created.Category.String)

	runHTTPTests(t, app, []httpTest{
		{
			name: "invalid type", method: http.MethodPost, path: "/v1/incidents",
			body:     []byte(`{"student_id": 3, "incident_date": "2024-03-04", "incident_type": "Great", "description": "x", "recorded_by": "Mrs. Wanjiru"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"incident_type": "incident_type must be one of Positive, Negative or Neutral"}`),
		},
		{
			name: "unknown student", method: http.MethodPost, path: "/v1/incidents",
			body:     []byte(`{"student_id": 404, "incident_date": "2024-03-04", "incident_type": "Neutral", "description": "x", "recorded_by": "Mrs. Wanjiru"}`),
			wantCode: http.StatusUnprocessableEntity, wantData: marshalObj(t, httpErr{Error: "student not found"}),
		},
		{name: "other class", path: "/v1/incidents?form=2&class=East", wantData: []byte(`[]`)},
		{
			name: "invalid student", path: "/v1/incidents?student_id=x",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"student_id": "must be a positive integer"}`),
		},
	})

	req, rec = newRequest(http.MethodGet, "/v1/incidents?class=Blue+Whale")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var entries []incident.Entry
	unmarshalBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)
	assert.Equal(t, "Chiku", entries[0].FirstName)

	req, rec = newRequest(http.MethodGet, "/v1/incidents/export?student_id=3")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="incidents.csv"`, rec.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, created.ID, rows[1][0])
	assert.Equal(t, "Blue Whale", rows[1][7])
}
