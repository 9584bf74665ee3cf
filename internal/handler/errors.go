package handler

import (
	"github.com/labstack/echo/v4"

	"blogapi/internal/errors"
)

// httpError converts a domain error into the response Echo sends, keeping
// the cause for the request log.
func httpError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// badRequest reports a malformed JSON body.
func badRequest(code, message string) *echo.HTTPError {
	return echo.NewHTTPError(400, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
