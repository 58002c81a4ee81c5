package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	errInvalidID    = core.NewValidationError(errors.New("invalid id"), core.FieldError{Field: "id", Error: "id must be a positive integer"})
)

var kindCodes = map[core.Kind]int{
	core.KindInvalidInput: http.StatusBadRequest,
	core.KindNotFound:     http.StatusNotFound,
	core.KindInvalidState: http.StatusBadRequest,
	core.KindConflict:     http.StatusConflict,
	core.KindUnauthorized: http.StatusUnauthorized,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var herr *echo.HTTPError
		var verr *core.ValidationError
		switch {
		case errors.As(err, &herr):
			if herr.Internal != nil {
				if inner, ok := herr.Internal.(*echo.HTTPError); ok {
					herr = inner
				}
			}
			code = herr.Code
			message = herr.Message
		case errors.As(err, &verr):
			code = http.StatusBadRequest
			if len(verr.Fields) > 0 {
				fldErrs := make(map[string]string, len(verr.Fields))
				for _, fErr := range verr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = verr.Error()
			}
		default:
			kind := core.KindOf(err)
			if c, ok := kindCodes[kind]; ok {
				code = c
				if kind == core.KindUnauthorized {
					message = core.ErrUnauthorized.Message
				} else {
					message = errors.Cause(err).Error()
				}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg), ctx.Request())

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
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
