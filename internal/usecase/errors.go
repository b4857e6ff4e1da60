package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorLLMStatus      ErrorCode = "LLM_STATUS"
	ErrorLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	ErrorWebhook        ErrorCode = "WEBHOOK_ERROR"
)

// Error describes a failure the relay recovered from. It is recorded on the
// Report and logged; it never escapes Run.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}
