package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error in this package matches exactly one of these
// through errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrOperation     = errors.New("operation error")
	ErrConfiguration = errors.New("configuration error")
)

// Registry, observer, and storage errors.
var (
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrNoOperation        = errors.New("no operation set")
	ErrInvalidConstructor = errors.New("constructor does not produce an operation")
	ErrObserverNotFound   = errors.New("observer not found")
	ErrUnknownFormat      = errors.New("unknown history format")
	ErrMalformedRecord    = errors.New("malformed history record")
)

// ValidationError reports malformed or out-of-range input. It is always
// user-correctable and never wraps a lower-level cause.
type ValidationError struct {
	Msg string
}

// NewValidationError formats a ValidationError message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// OperationError reports a failed operation, a missing operation, or a
// persistence failure. Err holds the underlying cause when there is one.
type OperationError struct {
	Msg string
	Err error
}

// NewOperationError returns an OperationError whose message is msg followed
// by the cause's message.
func NewOperationError(msg string, cause error) *OperationError {
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause.Error())
	}
	return &OperationError{Msg: msg, Err: cause}
}

func (e *OperationError) Error() string { return e.Msg }

func (e *OperationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrOperation.
func (e *OperationError) Is(target error) bool { return target == ErrOperation }

// ConfigurationError reports an invalid configuration value.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
