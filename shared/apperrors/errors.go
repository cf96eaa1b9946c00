package apperrors

import (
	"errors"
	"net/http"
)

// Code classifies an application error into the taxonomy the HTTP layer
// maps onto status codes.
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

// Error is an application error with an optional structured detail payload
// (e.g. the list of missing ids on a NotFound).
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error code to its HTTP status
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetail attaches a structured detail entry and returns the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func InvalidArgument(message string) *Error { return newError(CodeInvalidArgument, message) }
func Unauthorized(message string) *Error    { return newError(CodeUnauthorized, message) }
func Forbidden(message string) *Error       { return newError(CodeForbidden, message) }
func NotFound(message string) *Error        { return newError(CodeNotFound, message) }
func Conflict(message string) *Error        { return newError(CodeConflict, message) }
func Internal(message string) *Error        { return newError(CodeInternal, message) }

// From converts any error into an *Error, wrapping unknown errors as
// Internal so storage failures never leak driver details to the caller.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error")
}
