package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core/attendance"
)

type attendanceApi struct {
	ledger *attendance.Ledger
}

func registerAttendanceAPI(g *echo.Group, ledger *attendance.Ledger) {
	api := attendanceApi{ledger: ledger}

	g.POST("/attendance", api.recordBatch)
	g.GET("/attendance", api.queryByDate)
	g.GET("/students/:id/attendance", api.queryByStudent)
}

type UpdatedResponse struct {
	Updated int `json:"updated"`
}

func (api *attendanceApi) recordBatch(ctx echo.Context) error {
	var data attendance.NewBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatch")
	}

	n, err := api.ledger.RecordBatch(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, UpdatedResponse{Updated: n})
}

func (api *attendanceApi) queryByDate(ctx echo.Context) error {
	date, err := dateParam("date", ctx.QueryParam("date"))
	if err != nil {
		return err
	}
	form, className, err := classFilter(ctx)
	if err != nil {
		return err
	}

	entries, err := api.ledger.QueryByDate(
		ctx.Request().Context(),
		attendance.DateFilter{Date: date, Form: form, ClassName: className},
	)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *attendanceApi) queryByStudent(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return invalidParam("id", "must be a positive integer")
	}
	from, err := dateParam("from", ctx.QueryParam("from"))
	if err != nil {
		return err
	}
	to, err := dateParam("to", ctx.QueryParam("to"))
	if err != nil {
		return err
	}

	records, err := api.ledger.QueryByStudentRange(ctx.Request().Context(), id, from, to)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}
