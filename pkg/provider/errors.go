package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a provider call failure per the provider's status-code
// handling contract.
type Kind string

const (
	KindAuth               Kind = "auth"
	KindBadRequest         Kind = "bad_request"
	KindForbidden          Kind = "forbidden"
	KindRateLimit          Kind = "rate_limit"
	KindServiceUnavailable Kind = "service_unavailable"
	KindAPI                Kind = "api"
	KindNetwork            Kind = "network"
)

// Error is a failed provider call. CorrelationID is the provider's support
// reference and must be preserved on every failure for escalation.
type Error struct {
	Kind          Kind
	Status        int
	Body          string
	CorrelationID string
	Op            string
	Err           error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("provider %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.CorrelationID != "" {
		msg = fmt.Sprintf("%s [correlation_id=%s]", msg, e.CorrelationID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a provider error of the given kind.
func IsKind(err error, kind Kind) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind == kind
	}
	return false
}

// AsError returns the typed provider error in err's chain, if any.
func AsError(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// PageError marks a partial stock fetch: pages before Page were retrieved and
// returned alongside this error.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("stock page %d fetch failed: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
