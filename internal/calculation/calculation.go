// Package calculation defines the immutable record of one executed
// operation and its tabular record form.
package calculation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/abacus/internal/operation"
)

// Calculation captures one executed operation. Result is computed once at
// construction from Operation, Operand1, and Operand2; the fields must not be
// modified afterward.
type Calculation struct {
	Operation string
	Operand1  decimal.Decimal
	Operand2  decimal.Decimal
	Result    decimal.Decimal
	Timestamp time.Time
}

// now is overridden in tests.
var now = time.Now

// New resolves name in the process-wide registry and executes it on a and b.
func New(name string, a, b decimal.Decimal) (*Calculation, error) {
	return NewWithRegistry(operation.Default(), name, a, b)
}

// NewWithRegistry resolves name in reg and executes it on a and b.
func NewWithRegistry(reg *operation.Registry, name string, a, b decimal.Decimal) (*Calculation, error) {
	op, err := reg.Create(name)
	if err != nil {
		return nil, err
	}
	return FromOperation(op, a, b)
}

// FromOperation executes op on a and b and records the outcome. Validation
// and execution errors from op are returned unchanged.
func FromOperation(op operation.Operation, a, b decimal.Decimal) (*Calculation, error) {
	result, err := op.Execute(a, b)
	if err != nil {
		return nil, err
	}
	return &Calculation{
		Operation: op.Name(),
		Operand1:  a,
		Operand2:  b,
		Result:    result,
		Timestamp: now(),
	}, nil
}

// Equal reports whether c and other describe the same operation, operands,
// and result. Timestamps are ignored.
func (c *Calculation) Equal(other *Calculation) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Operation == other.Operation &&
		c.Operand1.Equal(other.Operand1) &&
		c.Operand2.Equal(other.Operand2) &&
		c.Result.Equal(other.Result)
}

// Clone returns an independent copy of c.
func (c *Calculation) Clone() *Calculation {
	cp := *c
	return &cp
}

// String renders the calculation as "Addition(2, 3) = 5".
func (c *Calculation) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", c.Operation, c.Operand1, c.Operand2, c.Result)
}

// Describe renders the audit form "addition (2, 3) = 5".
func (c *Calculation) Describe() string {
	return fmt.Sprintf("%s (%s, %s) = %s", strings.ToLower(c.Operation), c.Operand1, c.Operand2, c.Result)
}

// FormatResult rounds the result to precision fractional digits and strips
// trailing zeros.
func (c *Calculation) FormatResult(precision int) string {
	return FormatDecimal(c.Result, precision)
}

// FormatDecimal rounds d to precision fractional digits and strips trailing
// zeros.
func FormatDecimal(d decimal.Decimal, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return d.Round(int32(precision)).String()
}
