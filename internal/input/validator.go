// Package input converts raw operands into bounded decimal values.
package input

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Exponent window accepted for non-zero operands.
const (
	minExponent = -1000
	maxExponent = 1000
)

// ValidateNumber parses raw into a decimal and enforces the configured
// magnitude ceiling. Strings are trimmed before parsing. The returned value
// carries no trailing fractional zeros.
//
// Accepted raw types are string, decimal.Decimal, the built-in integer
// types, float32 and float64. Anything else, including nil, fails with a
// *ValidationError that quotes the raw value, as does a non-zero value whose
// exponent is below minExponent. An exponent above maxExponent is reported
// as exceeding the ceiling.
func ValidateNumber(raw any, cfg types.Config) (decimal.Decimal, error) {
	d, err := parse(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if d.Exponent() < minExponent {
		if str, ok := raw.(string); ok {
			return decimal.Zero, invalid(str)
		}
		return decimal.Zero, invalid(fmt.Sprintf("%T with exponent %d", raw, d.Exponent()))
	}
	if d.Exponent() > maxExponent || d.Abs().GreaterThan(cfg.MaxInputValue) {
		return decimal.Zero, types.NewValidationError("Input exceeds maximum allowed value: %s", cfg.MaxInputValue)
	}
	return Normalize(d), nil
}

// Normalize strips trailing fractional zeros so that equal values share one
// representation.
func Normalize(d decimal.Decimal) decimal.Decimal {
	if d.Exponent() >= 0 {
		return d
	}
	n, err := decimal.NewFromString(d.String())
	if err != nil {
		return d
	}
	return n
}

func parse(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		d, err := decimal.NewFromString(s)
		if err != nil || s == "" {
			return decimal.Zero, invalid(v)
		}
		return d, nil
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, invalid(raw)
		}
		return *v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint8:
		return decimal.NewFromInt(int64(v)), nil
	case uint16:
		return decimal.NewFromInt(int64(v)), nil
	case uint32:
		return decimal.NewFromInt(int64(v)), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), nil
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, invalid(raw)
		}
		return decimal.NewFromFloat32(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, invalid(raw)
		}
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, invalid(raw)
	}
}

func invalid(raw any) *types.ValidationError {
	return types.NewValidationError("Invalid number format: %s", fmt.Sprint(raw))
}
