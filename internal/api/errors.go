package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/abhisek/quizmark/internal/ingest"
	"github.com/abhisek/quizmark/internal/store"
)

// newHTTPErrorHandler maps domain errors to status codes and renders every
// error as {"error": "..."}.
func newHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message any
			herr    *echo.HTTPError
			verrs   validator.ValidationErrors
		)

		switch {
		case errors.As(err, &herr):
			if inner, ok := herr.Internal.(*echo.HTTPError); ok {
				herr = inner
			}
			code = herr.Code
			if m, ok := herr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case errors.As(err, &verrs):
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = "failed on " + fe.Tag()
			}
			code = http.StatusBadRequest
			message = fields
		case errors.Is(err, ingest.ErrInvalidPayload):
			code = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, store.ErrNotFound):
			code = http.StatusNotFound
			message = err.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logger.Error("unhandled error", "method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, echo.Map{"error": message})
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}
