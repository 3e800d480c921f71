package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/models"
)

// errorStageKey stores the error code of a failed request for observability
const errorStageKey = "shipnotes.error_stage"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps a domain error kind to an HTTP status and error code
func classify(err error) (int, string) {
	switch models.KindOf(err) {
	case models.ErrValidation:
		return http.StatusBadRequest, "validation_error"
	case models.ErrUnknownCategory:
		return http.StatusUnprocessableEntity, "unknown_category"
	case models.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case models.ErrReserved:
		return http.StatusConflict, "reserved_status"
	case models.ErrLast:
		return http.StatusConflict, "last_status"
	case models.ErrCapacity:
		return http.StatusConflict, "category_capacity"
	case models.ErrConflict:
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal"
}

// writeError renders err as the JSON error body. Unclassified errors are logged
// and reported without detail.
func writeError(c echo.Context, logger log.FieldLogger, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("route", c.Path()).Error("request failed")
		msg = "internal error"
	}
	return respondError(c, status, code, msg)
}

func respondError(c echo.Context, status int, code, msg string) error {
	c.Set(errorStageKey, code)
	return c.JSON(status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// HTTPErrorHandler renders router and middleware errors (unknown route, bad
// gzip body, panics) with the same JSON shape as handler errors.
func HTTPErrorHandler(logger log.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		code := "internal"
		msg := "internal error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			code = http.StatusText(status)
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
			switch status {
			case http.StatusNotFound:
				code = "not_found"
			case http.StatusMethodNotAllowed:
				code = "method_not_allowed"
			case http.StatusBadRequest:
				code = "bad_request"
			case http.StatusRequestEntityTooLarge:
				code = "body_too_large"
			}
		} else {
			logger.WithError(err).Error("unhandled request error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = respondError(c, status, code, msg)
	}
}
