// Package apperr defines the one error type the core ever returns: a
// three-variant taxonomy visible at every boundary (HTTP, repository,
// scheduler). Validation never accumulates a list — it short-circuits on
// the first failure, surfaced as one of these.
package apperr

import "fmt"

// Kind is the error taxonomy's three visible variants.
type Kind int

const (
	// BadRequest covers parse errors and semantic validation failures;
	// Msg is user-facing.
	BadRequest Kind = iota
	// Unauthorized means the caller's identity could not be verified.
	Unauthorized
	// Internal covers database or unexpected failures.
	Internal
)

// Error is the core's boundary error type.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.err
}

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Internal:
		return "internal_server_error"
	default:
		return "unknown"
	}
}

// NewBadRequest builds a user-facing validation error.
func NewBadRequest(format string, args ...any) *Error {
	return &Error{Kind: BadRequest, Msg: fmt.Sprintf(format, args...)}
}

// NewUnauthorized builds an authentication error.
func NewUnauthorized() *Error {
	return &Error{Kind: Unauthorized, Msg: "unauthorized"}
}

// Wrap builds an InternalServerError wrapping an underlying cause. The
// cause is never surfaced to the caller verbatim (err.Error() prefers
// Msg), only logged by the HTTP boundary. If err is already an *Error
// (a repository adapter that classified a unique-constraint violation as
// BadRequest, say), it passes through unchanged instead of being
// reclassified as Internal.
func Wrap(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: Internal, Msg: "internal server error", err: err}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		return false
	}
	return e.Kind == kind
}
