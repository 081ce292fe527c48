package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "blog-platform/pkg/errors"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	msgUpstreamFailure     = "Something went wrong while talking to a collaborating service."
)

// ErrorHandler maps the errors bubbling out of handlers and middleware to
// HTTP status codes. Internal errors are sanitized; the caller only ever
// sees the curated message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			message = "Invalid credentials"
		case errors.Is(err, apperrors.ErrUnauthorized):
			code = http.StatusUnauthorized
			message = "Unauthorized"
		case errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			message = "Forbidden"
		case errors.Is(err, apperrors.ErrBadRequest):
			code = http.StatusBadRequest
			message = "Bad request"
		case errors.Is(err, apperrors.ErrInvalidInput):
			code = http.StatusBadRequest
			message = "Invalid input"
		case errors.Is(err, apperrors.ErrValidation):
			code = http.StatusBadRequest
			message = "Validation error"
		case errors.Is(err, apperrors.ErrConflict):
			code = http.StatusConflict
			message = "Resource already exists"
		case errors.Is(err, apperrors.ErrUpstream):
			code = http.StatusInternalServerError
			message = msgUpstreamFailure
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && code < 500 {
			message = appErr.Message
		}
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	if code >= 500 {
		c.Logger().Errorf("request failed: request_id=%s status=%d err=%v", requestID, code, err)
	} else {
		c.Logger().Warnf("request denied: request_id=%s status=%d err=%v", requestID, code, err)
	}

	if err := c.JSON(code, map[string]string{"error": message}); err != nil {
		c.Logger().Error(err)
	}
}
