package domain

import (
	"context"
	"errors"
	"strings"
)

type FailureKind string

const (
	FailurePrivilegeDenied    FailureKind = "privilege_denied"
	FailureChannelUnavailable FailureKind = "channel_unavailable"
	FailureChannelClosed      FailureKind = "channel_closed"
	FailureNotPermitted       FailureKind = "not_permitted"
	FailureSessionBusy        FailureKind = "session_busy"
	FailureUnknown            FailureKind = "unknown"
)

var failureMessages = map[FailureKind]string{
	FailurePrivilegeDenied:    "Root access was denied.",
	FailureChannelUnavailable: "The root service could not be reached, try again.",
	FailureChannelClosed:      "The root service was already shut down.",
	FailureNotPermitted:       "This operation is not permitted for the requested path.",
	FailureSessionBusy:        "Another privileged operation is still running, try again when it finishes.",
	FailureUnknown:            "Something went wrong while talking to the root service.",
}

// Message is the user-facing text of the category.
func (k FailureKind) Message() string {
	if msg, ok := failureMessages[k]; ok {
		return msg
	}

	return failureMessages[FailureUnknown]
}

// Retryable reports whether a caller may retry the same request unchanged.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureChannelUnavailable, FailureSessionBusy:
		return true
	default:
		return false
	}
}

// Fatal categories end the session and must never be retried automatically.
func (k FailureKind) Fatal() bool {
	return k == FailurePrivilegeDenied || k == FailureChannelClosed
}

// KindOf classifies err against the domain sentinels. Anything unmatched is
// FailureUnknown.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPrivilegeDenied):
		return FailurePrivilegeDenied
	case errors.Is(err, ErrChannelClosed):
		return FailureChannelClosed
	case errors.Is(err, ErrNotPermitted):
		return FailureNotPermitted
	case errors.Is(err, ErrSessionBusy):
		return FailureSessionBusy
	case errors.Is(err, ErrChannelUnavailable):
		return FailureChannelUnavailable
	default:
		return FailureUnknown
	}
}

// Failure is a translated error. Detail holds the internal message and is
// meant for logs; Error and Display never return it alone.
type Failure struct {
	Kind   FailureKind
	Op     string
	Detail string
	cause  error
}

func NewFailure(op string, err error) *Failure {
	if err == nil {
		return nil
	}

	return &Failure{
		Kind:   KindOf(err),
		Op:     op,
		Detail: err.Error(),
		cause:  err,
	}
}

func (f *Failure) Error() string {
	return f.Kind.Message()
}

func (f *Failure) Unwrap() error {
	return f.cause
}

// Display returns the category text, followed by the internal detail when
// withDetail is set.
func (f *Failure) Display(withDetail bool) string {
	msg := f.Kind.Message()
	if !withDetail || strings.TrimSpace(f.Detail) == "" {
		return msg
	}

	return msg + "\n" + f.Detail
}

// Canceled reports whether the failure originated from the caller abandoning
// the request rather than from the privileged side.
func (f *Failure) Canceled() bool {
	return errors.Is(f.cause, context.Canceled)
}
