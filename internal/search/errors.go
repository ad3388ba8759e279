package search

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidQuery rejects an empty or whitespace-only query before any
// engine is dispatched.
var ErrInvalidQuery = errors.New("query is empty or whitespace-only")

// Kind classifies an engine failure. Per-engine failures are never
// process-fatal; they are absorbed into the outcome map.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindRateLimited       Kind = "rate_limited"
	KindUpstream          Kind = "upstream"
	KindInvalidParameters Kind = "invalid_parameters"
	KindUnknown           Kind = "unknown"
)

// Error is a typed per-engine failure.
type Error struct {
	Engine  string `json:"engine"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	cause error
}

// NewError builds an Error with an optional wrapped cause.
func NewError(engine string, kind Kind, msg string, cause error) *Error {
	return &Error{Engine: engine, Kind: kind, Message: msg, cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine %s: %s: %s", e.Engine, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Classify wraps an arbitrary error from an engine invocation into a typed
// Error. Existing typed errors pass through with the engine name filled in;
// context expiry maps to KindTimeout; everything else is KindUpstream since
// engines only fail while talking to their backend.
func Classify(engine string, err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		if ee.Engine == "" {
			ee.Engine = engine
		}
		return ee
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(engine, KindTimeout, "deadline exceeded", err)
	}
	return NewError(engine, KindUpstream, err.Error(), err)
}
