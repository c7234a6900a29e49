package sandbox

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// errorResponse is the canonical error envelope for all sandbox errors.
type errorResponse struct {
	Error string `json:"error"`
}

// newHTTPErrorHandler maps known sandbox errors to deterministic status
// codes, logs unexpected errors without leaking details, and renders the
// {"error": "<message>"} envelope the client's transport expects.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, errUserExists), errors.Is(err, errEmailExists), errors.Is(err, errDuplicateApplication):
		return http.StatusConflict, err.Error()
	case errors.Is(err, errUserNotFound), errors.Is(err, errInternshipNotFound), errors.Is(err, errApplicationNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, errInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
