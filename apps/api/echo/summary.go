package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core/attendance"
)

const mimeTextCSV = "text/csv; charset=utf-8"

type summaryApi struct {
	summarizer *attendance.Summarizer
}

func registerSummaryAPI(g *echo.Group, summarizer *attendance.Summarizer) {
	api := summaryApi{summarizer: summarizer}

	sg := g.Group("/summaries")
	sg.GET("", api.query)
	sg.GET("/stats", api.stats)
	sg.GET("/export", api.export)
	sg.POST("/:month/generate", api.generate)
}

func (api *summaryApi) filter(ctx echo.Context) (attendance.SummaryFilter, error) {
	form, className, err := classFilter(ctx)
	if err != nil {
		return attendance.SummaryFilter{}, err
	}
	return attendance.SummaryFilter{Month: ctx.QueryParam("month"), Form: form, ClassName: className}, nil
}

func (api *summaryApi) generate(ctx echo.Context) error {
	n, err := api.summarizer.GenerateSummary(ctx.Request().Context(), ctx.Param("month"))
	if err != nil {
		return errors.Wrap(err, "generating monthly summary")
	}
	return ctx.JSON(http.StatusOK, UpdatedResponse{Updated: n})
}

func (api *summaryApi) query(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}

	entries, err := api.summarizer.FetchSummary(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "fetching monthly summary")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *summaryApi) stats(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}

	stats, err := api.summarizer.FetchStats(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "fetching report stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *summaryApi) export(ctx echo.Context) error {
	filter, err := api.filter(ctx)
	if err != nil {
		return err
	}

	month, err := api.summarizer.ResolveMonth(filter.Month)
	if err != nil {
		return err
	}
	filter.Month = month.String()

	entries, err := api.summarizer.FetchSummary(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "fetching monthly summary")
	}

	var buf bytes.Buffer
	if err = attendance.WriteSummariesCSV(&buf, entries); err != nil {
		return errors.Wrap(err, "exporting monthly summary")
	}
	return attachment(ctx, fmt.Sprintf("attendance_report_%s.csv", month), buf.Bytes())
}

func attachment(ctx echo.Context, filename string, data []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, mimeTextCSV, data)
}
