// Package server provides the HTTP REST API for the scholarship
// recommendation service.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrStudentNotFound indicates the student profile was not found
type ErrStudentNotFound struct {
	StudentID uuid.UUID
}

func (e *ErrStudentNotFound) Error() string {
	return fmt.Sprintf("student profile not found: %s", e.StudentID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest indicates a malformed request body or parameter
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrStudentNotFound:
		return http.StatusNotFound
	case *ErrValidation, *ErrBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
