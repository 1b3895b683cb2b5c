package echoapi

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/register/core"
)

func invalidParam(name, msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: name, Error: msg})
}

// intParam parses an optional integer; 0 when missing.
func intParam(name, val string) (int, error) {
	val = core.CleanString(val)
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, invalidParam(name, "must be a positive integer")
	}
	return n, nil
}

// dateParam parses an optional YYYY-MM-DD date; zero when missing.
func dateParam(name, val string) (core.Date, error) {
	val = core.CleanString(val)
	if val == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(val)
	if err != nil {
		return core.Date{}, invalidParam(name, "must be formatted as YYYY-MM-DD")
	}
	return d, nil
}

// classFilter reads the optional form & class query params shared by the list endpoints.
func classFilter(ctx echo.Context) (form int, className string, err error) {
	form, err = intParam("form", ctx.QueryParam("form"))
	if err != nil {
		return 0, "", err
	}
	return form, core.CleanString(ctx.QueryParam("class")), nil
}

// pathParam returns the unescaped path param, e.g. a class name with spaces.
func pathParam(ctx echo.Context, name string) string {
	val := ctx.Param(name)
	if unescaped, err := url.PathUnescape(val); err == nil {
		val = unescaped
	}
	return core.CleanString(val)
}
