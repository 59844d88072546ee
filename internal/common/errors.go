// Package common defines the error kinds shared by the collaborator
// repositories, services and the HTTP transport. Callers should use
// errors.Is to match a kind.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStoreUnavailable = errors.New("store unavailable")

	// Directory errors.
	ErrorUpstreamUnavailable = errors.New("upstream unavailable")

	// Validation errors.
	ErrorInvalidQuery = errors.New("invalid query")

	// ErrorInternal is the kind reported for anything unclassified.
	ErrorInternal = errors.New("internal error")
)

// Error pairs a kind with a human-readable message and an optional cause.
//
// Both the kind and the cause take part in errors.Is / errors.As, so
// errors.Is(err, ErrorUpstreamUnavailable) and
// errors.Is(err, context.DeadlineExceeded) can hold for the same value.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError builds an *Error. cause may be nil.
func NewError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

var kinds = []error{
	ErrorInvalidQuery,
	ErrorNotFound,
	ErrorUpstreamUnavailable,
	ErrorStoreUnavailable,
}

// KindOf reports the kind carried by err. Unclassified errors are
// ErrorInternal; nil yields nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind != nil {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrorInternal
}

// MessageOf returns the client-facing message of err: the Message of the
// outermost *Error, or err.Error() otherwise.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
