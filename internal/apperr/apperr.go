// Package apperr defines the error kinds surfaced to API callers.
// Every failure leaving the service layer carries exactly one Kind, so the
// caller can tell which pipeline step failed.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindNotFound           Kind = "NOT_FOUND"
	KindStorageWrite       Kind = "STORAGE_WRITE_ERROR"
	KindMetadataWrite      Kind = "METADATA_WRITE_ERROR"
	KindProcessing         Kind = "PROCESSING_ERROR"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInternal           Kind = "INTERNAL"
)

// Error is a classified failure. Op names the operation that failed,
// Message is safe to show to API callers, Err is the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies err under kind.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the caller-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}
