package model

import (
	"errors"
	"fmt"
	"time"
)

// User-facing messages. The underlying cause is only ever logged.
const (
	MsgMissingInput      = "Please upload a resume and enter a job description."
	MsgAnalysisFailed    = "An error occurred while analyzing the resume."
	MsgMalformedResponse = "The analysis service returned a malformed response."
	MsgSubmitInFlight    = "An analysis is already in progress."
)

var (
	ErrMissingInput      = errors.New("missing resume or job description")
	ErrAnalysisFailed    = errors.New("analysis request failed")
	ErrMalformedResponse = errors.New("malformed analysis response")
	ErrSubmitInFlight    = errors.New("submission already in flight")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// MalformedError describes a response that decoded but broke the schema.
type MalformedError struct {
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed analysis response: %s", e.Reason)
	}
	return fmt.Sprintf("malformed analysis response: %s %s", e.Field, e.Reason)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// UserMessage maps an error from a submission to the fixed message shown to
// the user. Unknown errors collapse to the generic analysis failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return MsgMissingInput
	case errors.Is(err, ErrSubmitInFlight):
		return MsgSubmitInFlight
	case errors.Is(err, ErrMalformedResponse):
		return MsgMalformedResponse
	default:
		return MsgAnalysisFailed
	}
}
