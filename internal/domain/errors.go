package domain

import "errors"

// ErrDuplicate is returned by repositories when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate record")

// Kind classifies an Error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindAuthenticationRequired
	KindForbidden
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthenticationRequired:
		return "authentication required"
	case KindForbidden:
		return "forbidden"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// the internal cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the Err* sentinels below work
// with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation             = &Error{Kind: KindValidation}
	ErrConflict               = &Error{Kind: KindConflict}
	ErrAuthentication         = &Error{Kind: KindAuthentication}
	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired}
	ErrForbidden              = &Error{Kind: KindForbidden}
	ErrSystem                 = &Error{Kind: KindSystem}
)

// Validation returns a KindValidation error with a client-facing message.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict returns a KindConflict error with a client-facing message.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Authentication returns a KindAuthentication error with a client-facing message.
func Authentication(msg string) error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

// AuthenticationRequired returns a KindAuthenticationRequired error.
func AuthenticationRequired(msg string) error {
	return &Error{Kind: KindAuthenticationRequired, Message: msg}
}

// Forbidden returns a KindForbidden error with a client-facing message.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// System wraps an internal cause behind a generic client-facing message.
func System(msg string, cause error) error {
	return &Error{Kind: KindSystem, Message: msg, Err: cause}
}
