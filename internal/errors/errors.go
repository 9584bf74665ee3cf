package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrMissingFile is returned when an upload requires a file and none was attached.
	ErrMissingFile = errors.New("file is required")
	// ErrUnsupportedMediaType is returned when an uploaded file is not an allowed image type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge is returned when an uploaded file exceeds its size limit.
	ErrPayloadTooLarge = errors.New("file too large")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the claimed identity does not own the record.
	ErrForbidden = errors.New("access denied")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("record already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStore is returned for unexpected database failures.
	ErrStore = errors.New("store error")
	// ErrFileSystem is returned for unexpected storage failures.
	ErrFileSystem = errors.New("file system error")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Client-facing kinds keep
// the wrapped message so callers see which field or limit was violated;
// unexpected failures are reported without detail.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingFile):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FILE")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrUnsupportedMediaType):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "UNSUPPORTED_MEDIA_TYPE")
	case errors.Is(err, ErrPayloadTooLarge):
		return NewHTTPError(http.StatusRequestEntityTooLarge, err.Error(), "PAYLOAD_TOO_LARGE")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusUnauthorized, ErrForbidden.Error(), "ACCESS_DENIED")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrFileSystem):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "FILE_SYSTEM_ERROR")
	case errors.Is(err, ErrStore):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "STORE_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
