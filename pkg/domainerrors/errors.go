// Package domainerrors defines the coded error taxonomy shared by services
// and the HTTP layer. Handlers translate codes to status codes; services
// never construct HTTP responses themselves.
package domainerrors

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeBadRequest     Code = "bad_request"
	CodeMissingField   Code = "missing_field"
	CodeInvalidEmail   Code = "invalid_email"
	CodeDuplicate      Code = "duplicate_this_month"
	CodeNoParticipants Code = "no_participants"
	CodeUnavailable    Code = "store_unavailable"
	CodeInternal       Code = "internal"
)

// Error carries a machine-readable code plus the human-readable message
// surfaced to clients.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors such as raw store failures.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps an error code to the status the HTTP layer responds
// with. Client-input codes are 400; everything uncategorized is a 500.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeMissingField, CodeInvalidEmail, CodeDuplicate:
		return http.StatusBadRequest
	case CodeUnavailable, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
