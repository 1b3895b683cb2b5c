package echoapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core/incident"
)

type incidentApi struct {
	svc *incident.Service
}

func registerIncidentAPI(g *echo.Group, svc *incident.Service) {
	api := incidentApi{svc: svc}

	ig := g.Group("/incidents")
	ig.POST("", api.create)
	ig.GET("", api.query)
	ig.GET("/export", api.export)
}

func (api *incidentApi) filter(ctx echo.Context) (incident.QueryFilter, error) {
	var filter incident.QueryFilter
	if sid := ctx.QueryParam("student_id"); sid != "" {
		id, err := strconv.ParseInt(sid, 10, 64)
		if err != nil || id <= 0 {
			return filter, invalidParam("student_id", "must be a positive integer")
		}
		filter.StudentID = id
	}

	form, className, err := classFilter(ctx)
	if err != nil {
		return filter, err
	}
	filter.Form, filter.ClassName = form, className
	return filter, nil
}

func (api *incidentApi) create(ctx echo.Context) error {
	var data incident.NewIncident
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewIncident")
	}

	inc, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording incident")
	}
	return ctx.JSON(http.StatusCreated, inc)
}

func (api *incidentApi) query(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}

	entries, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying incidents")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *incidentApi) export(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}

	entries, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying incidents")
	}

	var buf bytes.Buffer
	if err = incident.WriteCSV(&buf, entries); err != nil {
		return errors.Wrap(err, "exporting incidents")
	}
	return attachment(ctx, "incidents.csv", buf.Bytes())
}
