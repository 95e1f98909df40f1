package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so that callers above the service layer can pick a
// recovery path (and the transport a status code) without inspecting causes.
type Kind string

const (
	// KindValidation means malformed or missing input, detected before any store access.
	KindValidation Kind = "validation"

	// KindAuthentication means the presented credentials did not authenticate.
	KindAuthentication Kind = "authentication"

	// KindSessionExpired means a refresh credential's TTL elapsed. Distinct from
	// KindSessionInvalid so clients can force re-login instead of retrying.
	KindSessionExpired Kind = "session_expired"

	// KindSessionInvalid means a credential failed verification, has no matching
	// active session record, or was already consumed by a concurrent rotation.
	KindSessionInvalid Kind = "session_invalid"

	// KindConflict means a uniqueness constraint was violated (duplicate registration).
	KindConflict Kind = "conflict"

	// KindNotFound means the addressed record does not exist.
	KindNotFound Kind = "not_found"

	// KindConfiguration means the process is misconfigured (e.g. missing signing
	// secrets). Fatal at startup; never surfaced per request.
	KindConfiguration Kind = "configuration"

	// KindStoreUnavailable means a transient persistence failure; the whole
	// operation is safe to retry.
	KindStoreUnavailable Kind = "store_unavailable"

	// KindUnknown is the catch-all for unexpected internal failures.
	KindUnknown Kind = "unknown"
)

// Error is the typed error carried across the service boundary. It wraps an
// optional cause, which is logged but never returned to clients.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err is an *Error of the same kind, so sentinel-style
// comparisons like errors.Is(err, core.ErrReplayed) work across wrapping.
func (e *Error) Is(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return e.Kind == ce.Kind
	}
	return false
}

// NewError creates a typed error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a typed error that records cause for logging. Returns nil
// if cause is nil.
func WrapError(cause error, kind Kind, format string, args ...any) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// IsExactly reports whether sentinel itself appears in err's chain. Unlike
// errors.Is, which this package's kind-based Is makes true for any error of
// the same kind, this matches the one sentinel only.
func IsExactly(err error, sentinel *Error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok && e == sentinel {
			return true
		}
	}
	return false
}

// KindOf extracts the Kind from err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Common sentinel values. Handlers and tests compare against these with
// errors.Is; services may also construct their own *Error with the same kind.
var (
	ErrMissingFields    = NewError(KindValidation, "missing required fields")
	ErrBadCredentials   = NewError(KindAuthentication, "invalid email or password")
	ErrRefreshExpired   = NewError(KindSessionExpired, "refresh token expired")
	ErrNoActiveSession  = NewError(KindSessionInvalid, "no matching active session")
	ErrReplayed         = NewError(KindSessionInvalid, "refresh token already rotated")
	ErrDuplicateEmail   = NewError(KindConflict, "email already registered")
	ErrNotFound         = NewError(KindNotFound, "record not found")
	ErrSecretsUnset     = NewError(KindConfiguration, "signing secrets not configured")
	ErrStoreUnavailable = NewError(KindStoreUnavailable, "store unavailable")
	ErrUnauthorized     = NewError(KindAuthentication, "unauthorized")
)
