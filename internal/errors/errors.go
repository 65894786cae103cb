package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrDuplicateEmail is returned when the signup email is already registered.
	ErrDuplicateEmail = errors.New("This email address is already registered. Try logging in instead?")
	// ErrInvalidToken is returned for malformed, tampered or unresolvable tokens.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrTokenExpired is returned when a well-formed token is past its expiry.
	ErrTokenExpired = errors.New("Token expired")
	// ErrAccountAlreadyActivated is returned when activating a verified account.
	ErrAccountAlreadyActivated = errors.New("Account already activated")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("User not found")
	// ErrDuplicateRecord is returned when the store rejects a write on a unique index.
	ErrDuplicateRecord = errors.New("duplicate record")
)

// InternalErrorMessage is the only text a client ever sees for unexpected faults.
const InternalErrorMessage = "Internal server error"

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	// Path is the JSON path of the offending field, e.g. ["birthYear"].
	Path    []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.FieldName() + ": " + e.Message
}

// FieldName renders Path with each segment capitalised and space-joined.
func (e *ValidationError) FieldName() string {
	parts := make([]string, 0, len(e.Path))
	for _, p := range e.Path {
		if p == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(parts, " ")
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised is an
// internal fault and yields a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return NewHTTPError(http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrAccountAlreadyActivated):
		return NewHTTPError(http.StatusBadRequest, domainMessage(err))
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, InternalErrorMessage)
	}
}

// domainMessage returns the sentinel's text even when err wraps it with context.
func domainMessage(err error) string {
	for _, sentinel := range []error{ErrDuplicateEmail, ErrInvalidToken, ErrTokenExpired, ErrAccountAlreadyActivated} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
