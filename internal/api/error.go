package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-api/internal/service"
)

type ErrorResponse struct {
	Message string `json:"error"`
}

var (
	InternalServerError = ErrorResponse{"Internal server error"} //nolint:gochecknoglobals // this is a constant response for internal server error
	BadRequestError     = ErrorResponse{"Bad request"}           //nolint:gochecknoglobals // this is a constant response for bad request
)

// HTTPErrorHandler writes {"error": message} for every error returned by a handler.
// Causes of internal errors are logged and never sent to the client.
func HTTPErrorHandler(log *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		status, res := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "failed to process request", "error", err)
		} else {
			log.DebugContext(ctx, "request rejected", "status", status, "error", err)
		}

		if wErr := c.JSON(status, res); wErr != nil {
			log.ErrorContext(ctx, "failed to write error response", "error", wErr)
		}
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var sErr *service.Error
	if errors.As(err, &sErr) {
		status := statusOf(sErr.Kind)
		if status == http.StatusInternalServerError && sErr.Message == "" {
			return status, InternalServerError
		}
		return status, ErrorResponse{Message: sErr.Message}
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, ErrorResponse{Message: validationMessage(vErrs)}
	}

	var echoError *echo.HTTPError
	if errors.As(err, &echoError) {
		if echoError.Code >= http.StatusInternalServerError {
			return echoError.Code, InternalServerError
		}
		if message, ok := echoError.Message.(string); ok && message != "" {
			return echoError.Code, ErrorResponse{Message: message}
		}
		return echoError.Code, ErrorResponse{Message: http.StatusText(echoError.Code)}
	}

	return http.StatusInternalServerError, InternalServerError
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
