// Package operation implements the arithmetic strategies and the registry
// that maps operation names to them.
package operation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// divisionScale is the number of fractional digits kept by division-based
// operations.
const divisionScale = 28

var hundred = decimal.NewFromInt(100)

// Operation is a binary arithmetic strategy. Execute always runs Validate
// first and returns its error unchanged.
type Operation interface {
	Execute(a, b decimal.Decimal) (decimal.Decimal, error)
	Validate(a, b decimal.Decimal) error
	Name() string
}

// Add returns a + b.
type Add struct{}

func (Add) Name() string                        { return "Addition" }
func (Add) Validate(a, b decimal.Decimal) error { return nil }

func (op Add) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Add(b), nil
}

// Subtract returns a - b.
type Subtract struct{}

func (Subtract) Name() string                        { return "Subtraction" }
func (Subtract) Validate(a, b decimal.Decimal) error { return nil }

func (op Subtract) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Sub(b), nil
}

// Multiply returns a * b.
type Multiply struct{}

func (Multiply) Name() string                        { return "Multiplication" }
func (Multiply) Validate(a, b decimal.Decimal) error { return nil }

func (op Multiply) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Mul(b), nil
}

// Divide returns a / b, rounded to divisionScale fractional digits.
type Divide struct{}

func (Divide) Name() string { return "Division" }

func (Divide) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return types.NewValidationError("Division by zero is not allowed.")
	}
	return nil
}

func (op Divide) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.DivRound(b, divisionScale), nil
}

// Power returns a raised to b. The exponentiation runs in float64 and the
// result is converted back to the shortest decimal that round-trips.
type Power struct{}

func (Power) Name() string { return "Power" }

func (Power) Validate(a, b decimal.Decimal) error {
	if b.IsNegative() {
		return types.NewValidationError("Negative exponent is not allowed for this operation.")
	}
	return nil
}

func (op Power) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return fromFloat(math.Pow(a.InexactFloat64(), b.InexactFloat64()))
}

// Root returns the b-th root of a, computed as a^(1/b) in float64.
type Root struct{}

func (Root) Name() string { return "Root" }

func (Root) Validate(a, b decimal.Decimal) error {
	if a.IsNegative() {
		return types.NewValidationError("Cannot calculate the root of a negative number.")
	}
	if !b.IsPositive() {
		return types.NewValidationError("Root degree must be greater than zero.")
	}
	return nil
}

func (op Root) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return fromFloat(math.Pow(a.InexactFloat64(), 1/b.InexactFloat64()))
}

// Modulus returns the remainder of a / b. The sign follows the dividend.
type Modulus struct{}

func (Modulus) Name() string { return "Modulus" }

func (Modulus) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return types.NewValidationError("Modulus by zero is not allowed.")
	}
	return nil
}

func (op Modulus) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Mod(b), nil
}

// IntegerDivide returns floor(a / b) for integral operands.
type IntegerDivide struct{}

func (IntegerDivide) Name() string { return "IntegerDivision" }

func (IntegerDivide) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return types.NewValidationError("Integer division by zero is not allowed.")
	}
	if !a.IsInteger() || !b.IsInteger() {
		return types.NewValidationError("Both operands must be integers for integer division.")
	}
	return nil
}

func (op IntegerDivide) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	q, r := a.QuoRem(b, 0)
	// QuoRem truncates toward zero; step down when the signs differ.
	if !r.IsZero() && a.Sign() != b.Sign() {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return q, nil
}

// Percentage returns (a / b) * 100, the share of b that a represents.
type Percentage struct{}

func (Percentage) Name() string { return "Percentage" }

func (Percentage) Validate(a, b decimal.Decimal) error {
	if b.IsZero() {
		return types.NewValidationError("Cannot calculate percentage with a zero base value.")
	}
	return nil
}

func (op Percentage) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.DivRound(b, divisionScale).Mul(hundred), nil
}

// AbsoluteDifference returns |a - b|.
type AbsoluteDifference struct{}

func (AbsoluteDifference) Name() string                        { return "AbsoluteDifference" }
func (AbsoluteDifference) Validate(a, b decimal.Decimal) error { return nil }

func (op AbsoluteDifference) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if err := op.Validate(a, b); err != nil {
		return decimal.Zero, err
	}
	return a.Sub(b).Abs(), nil
}

// fromFloat converts a float64 result back to a decimal. Non-finite values
// cannot be represented and are reported as operation errors.
func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, types.NewOperationError("Calculation failed", errResultOutOfRange)
	}
	return decimal.NewFromFloat(f), nil
}
