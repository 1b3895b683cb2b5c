package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/register/apps/api/echo"
	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	"github.com/trezcool/register/core/classregister"
	"github.com/trezcool/register/core/incident"
	"github.com/trezcool/register/core/student"
	sqlxrepos "github.com/trezcool/register/storage/database/sqlx"
	"github.com/trezcool/register/tests"
)

// setup returns a server backed by a fresh database holding three students:
// 1 & 2 in form 2 East, 3 in form 3 "Blue Whale".
func setup(t *testing.T) (*Server, *sqlx.DB) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDB(t, conf)
	validate, translator := testutil.NewValidator()
	logger := core.NopLogger{}

	testutil.CreateStudent(t, db, 1, "ADM001", "Amani", "Kamau", 2, "East")
	testutil.CreateStudent(t, db, 2, "ADM002", "Baraka", "Achieng", 2, "East")
	testutil.CreateStudent(t, db, 3, "ADM003", "Chiku", "Otieno", 3, "Blue Whale")

	studentRepo := sqlxrepos.NewStudentRepository(db)
	attendanceRepo := sqlxrepos.NewAttendanceRepository(db)

	return NewServer("", nil, &Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		StudentSvc: student.NewService(db, studentRepo, validate, logger),
		Ledger:     attendance.NewLedger(db, attendanceRepo, validate, logger, conf),
		Summarizer: attendance.NewSummarizer(attendance.SummarizerDeps{
			DB:        db,
			Roster:    studentRepo,
			Records:   attendanceRepo,
			Summaries: sqlxrepos.NewSummaryRepository(db),
			Validate:  validate,
			Logger:    logger,
			Conf:      conf,
		}),
		IncidentSvc: incident.NewService(sqlxrepos.NewIncidentRepository(db), validate, logger),
		RegisterSvc: classregister.NewService(sqlxrepos.NewClassRegisterRepository(db), validate, logger),
	}), db
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshalBody() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *Server, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
