package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrBadRequest         ErrorCode = "BAD_REQUEST"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Validation, authorization and invariant failures are the three user facing
// error kinds of the ledger. They never carry internal details.

func Validation(message string) APIError {
	return APIError{Code: ErrInvalidInput, Message: message}
}

func Authorization(message string) APIError {
	return APIError{Code: ErrUnauthorized, Message: message}
}

func Invariant(message string) APIError {
	return APIError{Code: ErrInvariantViolation, Message: message}
}

// CodeOf returns the code of err if it is (or wraps) an APIError.
func CodeOf(err error) (ErrorCode, bool) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return "", false
}

func Is(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

func MapErrorToHTTPStatus(err error) int {
	code, ok := CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict, ErrInvariantViolation:
		return http.StatusConflict
	case ErrInvalidInput, ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusForbidden
	case ErrInternalServer:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
