package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/register/core"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var (
			httpErr  *echo.HTTPError
			fldErrs  validator.ValidationErrors
			validErr *core.ValidationError
		)
		switch {
		case errors.As(err, &httpErr):
			if httpErr.Internal != nil {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &fldErrs):
			code = http.StatusBadRequest
			if translator != nil {
				message = core.TranslateValidationErrors(fldErrs, translator)
			} else {
				message = fldErrs.Error()
			}
		case errors.As(err, &validErr):
			if validErr.Fields != nil {
				msgs := make(map[string]string, len(validErr.Fields))
				for _, fErr := range validErr.Fields {
					msgs[fErr.Field] = fErr.Error
				}
				message = msgs
			} else {
				message = validErr.Error()
			}
			code = http.StatusBadRequest
		case errors.Is(err, core.ErrNotFound):
			code = http.StatusNotFound
			message = "not found"
		case core.IsPersistenceError(err):
			code = http.StatusUnprocessableEntity
			message = "changes could not be saved"
			if errors.Is(err, core.ErrStudentNotFound) {
				message = core.ErrStudentNotFound.Error()
			}
			logger.Warn(message.(string), "path", ctx.Path(), "error", err)
		case core.IsConnectionError(err):
			code = http.StatusServiceUnavailable
			message = "store unavailable, try again later"
			logger.Error(message.(string), "path", ctx.Path(), "error", err)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, "path", ctx.Path(), "error", errors.Wrap(err, msg))
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
