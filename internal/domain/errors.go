package domain

import (
	"errors"
	"fmt"
)

// RejectReason classifies why an event was refused before any state change.
type RejectReason string

const (
	RejectClockRegression   RejectReason = "CLOCK_REGRESSION"
	RejectInvalidLineupSize RejectReason = "INVALID_LINEUP_SIZE"
	RejectUnknownPlayer     RejectReason = "UNKNOWN_PLAYER"
	RejectDuplicateEvent    RejectReason = "DUPLICATE_EVENT"
	RejectModelMismatch     RejectReason = "MODEL_MISMATCH"
	RejectMalformedEvent    RejectReason = "MALFORMED_EVENT"
)

// RejectionError reports a validation failure. Rejections never mutate
// state and are never retried automatically.
type RejectionError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Reject builds a RejectionError with a formatted detail message.
func Reject(reason RejectReason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a RejectionError when possible.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// InvariantCode names a derived-state invariant violation.
type InvariantCode string

const (
	InvariantNegativeDuration InvariantCode = "NEGATIVE_DURATION"
	InvariantNoOpenStint      InvariantCode = "NO_OPEN_STINT"
)

// InvariantError reports corruption of a game's derived state. It is fatal
// for that game: the engine stops applying events to it and surfaces the
// diagnostic, since continuing would compound the damage.
type InvariantError struct {
	Code   InvariantCode
	GameID string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s (game=%s): %s", e.Code, e.GameID, e.Detail)
}

// AsInvariant unwraps err into an InvariantError when possible.
func AsInvariant(err error) (*InvariantError, bool) {
	var inv *InvariantError
	if errors.As(err, &inv) {
		return inv, true
	}
	return nil, false
}
