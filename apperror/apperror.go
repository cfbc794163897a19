// Package apperror carries typed, status-coded errors from the booking
// core out to the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error with an HTTP status. Services return
// these; routes map them to JSON responses without inspecting strings.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an application error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Newf creates an application error with a formatted message.
func Newf(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Validation: malformed input rejected before any state change.
func Validation(format string, args ...interface{}) *Error {
	return Newf(http.StatusBadRequest, format, args...)
}

// Authorization: actor may not perform this transition.
func Authorization(format string, args ...interface{}) *Error {
	return Newf(http.StatusForbidden, format, args...)
}

// NotFound: unknown booking/service/helper/user id.
func NotFound(format string, args ...interface{}) *Error {
	return Newf(http.StatusNotFound, format, args...)
}

// Conflict: schedule overlap, job already claimed, or stale concurrency
// token. The caller should retry or pick another target.
func Conflict(format string, args ...interface{}) *Error {
	return Newf(http.StatusConflict, format, args...)
}

// State: transition not legal from the current state.
func State(format string, args ...interface{}) *Error {
	return Newf(http.StatusUnprocessableEntity, format, args...)
}

// StatusOf returns the HTTP status for err, or 500 for untyped errors.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == http.StatusConflict
}

// IsState reports whether err is an illegal-transition error.
func IsState(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == http.StatusUnprocessableEntity
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}
