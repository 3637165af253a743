// Package types defines the configuration, error taxonomy, and shared
// constants for the abacus calculator.
//
// Errors fall into three kinds. ValidationError reports input the user can
// correct. OperationError reports an internal or persistence failure and may
// wrap a cause. ConfigurationError reports invalid configuration values.
// Each kind matches its sentinel (ErrValidation, ErrOperation,
// ErrConfiguration) through errors.Is.
package types
