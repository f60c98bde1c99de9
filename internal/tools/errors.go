// Package tools holds the assistant's tool catalog, the handlers behind it
// and the dispatch boundary that turns handler outcomes into payloads for the
// model.
package tools

import (
	"errors"
	"fmt"

	"github.com/chris/aide/internal/calendar"
)

// Kind classifies a tool failure for the model.
type Kind string

const (
	KindInvalidTimezone    Kind = "invalid_timezone"
	KindNotFound           Kind = "not_found"
	KindUnknownTool        Kind = "unknown_tool"
	KindMalformedArguments Kind = "malformed_arguments"
	KindInternal           Kind = "internal"
)

// Error is a tool failure reported back to the model as a structured payload.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func malformed(format string, args ...any) *Error {
	return newError(KindMalformedArguments, format, args...)
}

// KindOf maps any error to a Kind. Errors from the calendar package keep
// their meaning; everything unrecognized is internal.
func KindOf(err error) Kind {
	var te *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return te.Kind
	case errors.Is(err, calendar.ErrInvalidTimezone):
		return KindInvalidTimezone
	case errors.Is(err, calendar.ErrMalformedDeadline):
		return KindMalformedArguments
	default:
		return KindInternal
	}
}
