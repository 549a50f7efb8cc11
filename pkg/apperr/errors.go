// Package apperr defines the error kinds the resolution engine produces,
// per the error handling design: InvalidContext and InvalidFeedback are
// surfaced to callers, UnknownIntent is logged but not surfaced as an
// error, CorpusError is fatal at startup, MemoryModelMismatch is fatal or
// handled per config, DeadlineExceeded is surfaced with work rolled back,
// and Internal is an opaque failure that must never carry a half-updated
// counter.
package apperr

import (
	"errors"
	"fmt"
)

// Kind discriminates the error categories the engine is allowed to produce.
type Kind string

const (
	KindInvalidContext      Kind = "invalid_context"
	KindInvalidFeedback     Kind = "invalid_feedback"
	KindUnknownIntent       Kind = "unknown_intent"
	KindCorpusError         Kind = "corpus_error"
	KindMemoryModelMismatch Kind = "memory_model_mismatch"
	KindDeadlineExceeded    Kind = "deadline_exceeded"
	KindInternal            Kind = "internal"
)

// Error is a kind-tagged error carrying an optional field name (for
// validation failures) and an optional wrapped cause.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Kind, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, apperr.New(apperr.KindInvalidContext, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New creates an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Field creates a field-scoped validation error (InvalidContext / InvalidFeedback).
func Field(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Msg: msg}
}

// Wrap wraps cause with a kind and message, preserving it for errors.Unwrap/errors.As.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Of reports whether err (or something it wraps) is an *Error of the given kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
