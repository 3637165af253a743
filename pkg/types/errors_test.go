package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	ve := NewValidationError("Invalid number format: %s", "abc")
	assert.Equal(t, "Invalid number format: abc", ve.Error())
	assert.ErrorIs(t, ve, ErrValidation)
	assert.NotErrorIs(t, ve, ErrOperation)
	assert.True(t, IsValidation(ve))

	cause := errors.New("disk full")
	oe := NewOperationError("Failed to save history", cause)
	assert.Equal(t, "Failed to save history: disk full", oe.Error())
	assert.ErrorIs(t, oe, ErrOperation)
	assert.ErrorIs(t, oe, cause)
	assert.False(t, IsValidation(oe))

	ce := &ConfigurationError{Field: "precision", Msg: "precision must be non-negative"}
	assert.ErrorIs(t, ce, ErrConfiguration)
	assert.Contains(t, ce.Error(), "precision")
}

func TestOperationErrorWithoutCause(t *testing.T) {
	oe := NewOperationError("No operation set", nil)
	assert.Equal(t, "No operation set", oe.Error())
	assert.Nil(t, errors.Unwrap(oe))
}
