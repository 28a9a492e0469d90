package cserr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error classification codes. The dashboard picks its banner wording from the
// code, so the set is intentionally small and stable.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
	CodeRateLimited     = "RATE_LIMITED"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusBadRequest, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrUpstreamTimeout is returned when a dependency did not answer in time.
	ErrUpstreamTimeout = New(fiber.StatusGatewayTimeout, CodeUpstreamTimeout, "data temporarily unavailable, retry")
)

type Extras map[string]interface{}

type CompsError struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *CompsError {
	return &CompsError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e CompsError) Msg(format string, parts ...interface{}) *CompsError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e CompsError) WithExtras(extras Extras) *CompsError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations interface{}) *CompsError {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *CompsError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
