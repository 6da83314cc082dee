package pipeline

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/saathi-labs/saathi/models"
)

// Kind is the internal error taxonomy: invalid input, provider failure, or
// quota exhaustion.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindProvider
	KindQuota
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindProvider:
		return "provider_error"
	case KindQuota:
		return "quota_exceeded"
	default:
		return "unknown"
	}
}

// Error is a step-tagged pipeline error.
type Error struct {
	Kind    Kind
	Step    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("step %s: %s", e.Step, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("step %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %s failed", e.Step)
}

func (e *Error) Unwrap() error { return e.Err }

// invalidf builds an invalid-input error for the given step.
func invalidf(step, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Step: step, Message: fmt.Sprintf(format, args...)}
}

// classify wraps a provider call failure, mapping HTTP 429 to quota exhaustion
// and everything else (timeouts, 5xx, transport errors) to a provider error.
func classify(step string, err error) *Error {
	kind := KindProvider
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		kind = KindQuota
	}
	return &Error{Kind: kind, Step: step, Err: err}
}

// KindOf extracts the taxonomy kind from err, or KindUnknown for foreign
// errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
