package errors

import (
	"net/http"

	"github.com/kaantopcuw/NightFlow/pkg/status"
)

// AppError carries the HTTP status code and application status alongside the
// message, so handlers can translate any error from the lower layers without
// leaking storage or lock internals to the caller.
type AppError struct {
	HTTPStatusCode int
	Status         string
	Message        string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(httpStatusCode int, status string, message string) error {
	return &AppError{
		HTTPStatusCode: httpStatusCode,
		Status:         status,
		Message:        message,
	}
}

// Destruct resolves any error to an AppError. Unknown error types are reported
// as an internal server error with their original message swallowed.
func Destruct(err error) AppError {
	if ae, ok := err.(*AppError); ok {
		return *ae
	}

	return AppError{
		HTTPStatusCode: http.StatusInternalServerError,
		Status:         status.INTERNAL_SERVER_ERROR,
		Message:        "internal server error",
	}
}

// IsInternal reports whether the error resolves to a 5xx outcome. Use cases
// use this to decide on a single internal retry before giving up.
func IsInternal(err error) bool {
	return Destruct(err).HTTPStatusCode >= http.StatusInternalServerError
}
