// Package errors provides the error type hierarchy for rlfzf.
//
// The library half of rlfzf runs inside a foreign editor process, so none of
// these errors may escape as a panic: every fault is classified here, logged,
// and turned into a return code at the exported boundary.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - file or executable not found
//   - ErrInvalid - validation failed
//   - ErrIO - file I/O error
//   - ErrCanceled - user canceled the selection
//   - ErrSpawn - the selector process could not be started
//   - ErrPipe - reading from or writing to the selector failed
//   - ErrUnresolved - a readline symbol could not be resolved
//   - ErrUnsupported - the binary was built without cgo or on an unsupported platform
//
// Wrapped error types (add context):
//   - SessionError{Op, Err, Cmd} - selection session errors
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	return &errors.SessionError{Op: "spawn", Cmd: "fzf", Err: errors.ErrSpawn}
//
//	if errors.IsSpawn(err) {
//	    // fall back to the original search
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a file or executable was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrCanceled indicates the user canceled the selection.
	ErrCanceled = baseError("canceled")

	// ErrSpawn indicates the selector process could not be started.
	ErrSpawn = baseError("spawn failed")

	// ErrPipe indicates a pipe read or write to the selector failed.
	ErrPipe = baseError("pipe I/O failed")

	// ErrUnresolved indicates a symbol could not be resolved.
	ErrUnresolved = baseError("symbol unresolved")

	// ErrUnsupported indicates the operation is unavailable in this build.
	ErrUnsupported = baseError("unsupported")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// SessionError represents an error that occurred while running a selection session.
type SessionError struct {
	// Op is the session step that failed ("spawn", "write", "read", "wait").
	Op string
	// Err is the underlying error.
	Err error
	// Cmd is the selector command line (optional).
	Cmd string
}

func (e *SessionError) Error() string {
	if e.Cmd != "" {
		return fmt.Sprintf("selector %s: %s\n  cmd: %s", e.Op, e.Err, e.Cmd)
	}
	return fmt.Sprintf("selector %s: %s", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{op: op, err: err}
}

// Join wraps two errors so that both are visible to errors.Is.
// kind is usually one of the sentinel errors above.
func Join(kind, err error) error {
	return &joinedError{kind: kind, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// joinedError tags an underlying error with a sentinel kind.
type joinedError struct {
	kind error
	err  error
}

func (e *joinedError) Error() string   { return fmt.Sprintf("%s: %s", e.kind, e.err) }
func (e *joinedError) Unwrap() []error { return []error{e.kind, e.err} }

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsSpawn reports whether err is or wraps ErrSpawn.
func IsSpawn(err error) bool {
	return errors.Is(err, ErrSpawn)
}

// IsPipe reports whether err is or wraps ErrPipe.
func IsPipe(err error) bool {
	return errors.Is(err, ErrPipe)
}

// IsUnresolved reports whether err is or wraps ErrUnresolved.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnresolved)
}

// IsUnsupported reports whether err is or wraps ErrUnsupported.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// AsSessionError reports whether err can be typed as a *SessionError.
func AsSessionError(err error) (*SessionError, bool) {
	var se *SessionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
