package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/abacus/internal/operation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Record column names, in persisted order.
const (
	FieldOperation = "operation"
	FieldOperand1  = "operand1"
	FieldOperand2  = "operand2"
	FieldResult    = "result"
	FieldTimestamp = "timestamp"
)

// Columns lists the record fields in persisted order.
var Columns = []string{FieldOperation, FieldOperand1, FieldOperand2, FieldResult, FieldTimestamp}

// TimestampLayout is the layout used when writing timestamps.
const TimestampLayout = time.RFC3339Nano

// legacyTimestampLayout accepts zone-less ISO-8601 timestamps written by
// older history files.
const legacyTimestampLayout = "2006-01-02T15:04:05.999999999"

// Record is the string form of a Calculation used by the storage backends.
type Record struct {
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

// Values returns the fields in Columns order.
func (r Record) Values() []string {
	return []string{r.Operation, r.Operand1, r.Operand2, r.Result, r.Timestamp}
}

// RecordFromValues builds a Record from a row in Columns order.
func RecordFromValues(values []string) (Record, error) {
	if len(values) != len(Columns) {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", types.ErrMalformedRecord, len(Columns), len(values))
	}
	return Record{
		Operation: values[0],
		Operand1:  values[1],
		Operand2:  values[2],
		Result:    values[3],
		Timestamp: values[4],
	}, nil
}

// ToRecord serializes c. Decimals use their exact string form.
func (c *Calculation) ToRecord() Record {
	return Record{
		Operation: c.Operation,
		Operand1:  c.Operand1.String(),
		Operand2:  c.Operand2.String(),
		Result:    c.Result.String(),
		Timestamp: c.Timestamp.Format(TimestampLayout),
	}
}

// FromRecord rebuilds a Calculation using the process-wide registry.
func FromRecord(rec Record, logger *zap.Logger) (*Calculation, error) {
	return FromRecordWithRegistry(operation.Default(), rec, logger)
}

// FromRecordWithRegistry rebuilds a Calculation by re-executing the stored
// operation on the stored operands, then restoring the stored timestamp.
// A stored result that differs from the recomputed one is logged as a
// warning and does not fail the load.
func FromRecordWithRegistry(reg *operation.Registry, rec Record, logger *zap.Logger) (*Calculation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if rec.Operation == "" {
		return nil, recordError("missing operation", nil)
	}
	a, err := decimal.NewFromString(rec.Operand1)
	if err != nil {
		return nil, recordError("invalid operand1", err)
	}
	b, err := decimal.NewFromString(rec.Operand2)
	if err != nil {
		return nil, recordError("invalid operand2", err)
	}
	stored, err := decimal.NewFromString(rec.Result)
	if err != nil {
		return nil, recordError("invalid result", err)
	}
	ts, err := ParseTimestamp(rec.Timestamp)
	if err != nil {
		return nil, recordError("invalid timestamp", err)
	}

	calc, err := NewWithRegistry(reg, rec.Operation, a, b)
	if err != nil {
		return nil, recordError("recompute "+rec.Operation, err)
	}
	calc.Timestamp = ts

	if !calc.Result.Equal(stored) {
		logger.Warn("stored result does not match recomputed result",
			zap.String("operation", rec.Operation),
			zap.String("stored", rec.Result),
			zap.String("computed", calc.Result.String()),
		)
	}
	return calc, nil
}

// ParseTimestamp parses an RFC 3339 timestamp, falling back to the
// zone-less ISO-8601 form interpreted in local time.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(TimestampLayout, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation(legacyTimestampLayout, s, time.Local)
}

func recordError(msg string, cause error) error {
	return types.NewOperationError("Invalid calculation data: "+msg, cause)
}
