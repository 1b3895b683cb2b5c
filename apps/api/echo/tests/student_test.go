package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/register/core/student"
)

func Test_home(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "Welcome to Register API!" {
		t.Errorf("failed! code = %v, body = %q", rec.Code, rec.Body.String())
	}
}

func Test_studentApi(t *testing.T) {
	app, _ := setup(t)

	runHTTPTests(t, app, []httpTest{
		{
			name: "classes", path: "/v1/classes",
			wantData: marshalObj(t, []student.Class{{Form: 2, ClassName: "East"}, {Form: 3, ClassName: "Blue Whale"}}),
		},
		{
			name: "class students", path: "/v1/classes/2/East/students",
			wantData: []byte(`[
				{"student_id": 2, "admission_number": "ADM002", "first_name": "Baraka", "last_name": "Achieng", "gender": null, "form": 2, "class_name": "East"},
				{"student_id": 1, "admission_number": "ADM001", "first_name": "Amani", "last_name": "Kamau", "gender": null, "form": 2, "class_name": "East"}
			]`),
		},
		{
			name: "escaped class name", path: "/v1/classes/3/Blue%20Whale/students",
			wantData: []byte(`[
				{"student_id": 3, "admission_number": "ADM003", "first_name": "Chiku", "last_name": "Otieno", "gender": null, "form": 3, "class_name": "Blue Whale"}
			]`),
		},
		{name: "unknown class", path: "/v1/classes/1/East/students", wantData: []byte(`[]`)},
		{
			name: "invalid form", path: "/v1/classes/two/East/students",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"form": "must be a positive integer"}`),
		},
	})
}
