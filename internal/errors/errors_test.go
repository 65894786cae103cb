package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Path: []string{"birthYear"}, Message: "Number must be less than or equal to 2010"}
	assert.Equal(t, "BirthYear: Number must be less than or equal to 2010", err.Error())

	nested := &ValidationError{Path: []string{"details", "bio"}, Message: "Required"}
	assert.Equal(t, "Details Bio: Required", nested.Error())
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", &ValidationError{Path: []string{"email"}, Message: "Invalid email"}, http.StatusBadRequest, "Email: Invalid email"},
		{"duplicate email", ErrDuplicateEmail, http.StatusBadRequest, ErrDuplicateEmail.Error()},
		{"wrapped invalid token", fmt.Errorf("verify: %w", ErrInvalidToken), http.StatusBadRequest, "Invalid token"},
		{"expired", ErrTokenExpired, http.StatusBadRequest, "Token expired"},
		{"already activated", ErrAccountAlreadyActivated, http.StatusBadRequest, "Account already activated"},
		{"not found", ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"duplicate record is internal", ErrDuplicateRecord, http.StatusInternalServerError, InternalErrorMessage},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, InternalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.ToErrorResponse().Message)
		})
	}
}
