package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartwaste/waste-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally, adding the cause to the response
//     only when exposeInternal is set (development).
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if code == http.StatusInternalServerError && exposeInternal {
			resp.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, unknown routes, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
			return http.StatusNotFound, errorResponse{Message: "Route not found"}
		}
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusBadRequest, errorResponse{Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Message: "Invalid token"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "User not found"}
	case errors.Is(err, domain.ErrNoSensorData):
		return http.StatusNotFound, errorResponse{Message: "No sensor data found"}
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
