package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/abacus/internal/operation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

func TestRecordRoundTrip(t *testing.T) {
	cases := []struct {
		op   string
		a, b string
	}{
		{"add", "2.5", "3.25"},
		{"subtract", "-1", "7"},
		{"multiply", "0.1", "0.2"},
		{"divide", "1", "3"},
		{"power", "2", "0.5"},
		{"root", "27", "3"},
		{"modulus", "-7", "3"},
		{"integerdivide", "-7", "2"},
		{"percentage", "1", "7"},
		{"absolutedifference", "3", "10"},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			orig, err := New(tc.op, dec(tc.a), dec(tc.b))
			require.NoError(t, err)

			back, err := FromRecord(orig.ToRecord(), nil)
			require.NoError(t, err)
			assert.True(t, orig.Equal(back), "want %s, got %s", orig, back)
			assert.True(t, orig.Timestamp.Equal(back.Timestamp))
		})
	}
}

func TestToRecord(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
	calc := &Calculation{Operation: "Addition", Operand1: dec("2"), Operand2: dec("3.5"), Result: dec("5.5"), Timestamp: ts}

	rec := calc.ToRecord()
	assert.Equal(t, Record{
		Operation: "Addition",
		Operand1:  "2",
		Operand2:  "3.5",
		Result:    "5.5",
		Timestamp: "2026-01-02T03:04:05.0000006Z",
	}, rec)
	assert.Equal(t, []string{"Addition", "2", "3.5", "5.5", "2026-01-02T03:04:05.0000006Z"}, rec.Values())
}

func TestRecordFromValues(t *testing.T) {
	rec, err := RecordFromValues([]string{"Addition", "1", "2", "3", "2026-01-02T03:04:05Z"})
	require.NoError(t, err)
	assert.Equal(t, "Addition", rec.Operation)

	_, err = RecordFromValues([]string{"Addition", "1"})
	assert.ErrorIs(t, err, types.ErrMalformedRecord)
}

func TestFromRecordLegacyTimestamp(t *testing.T) {
	calc, err := FromRecord(Record{
		Operation: "Addition",
		Operand1:  "3",
		Operand2:  "4",
		Result:    "7",
		Timestamp: "2025-06-01T10:20:30.123456",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2025, calc.Timestamp.Year())
	assert.Equal(t, 123456000, calc.Timestamp.Nanosecond())
	assert.True(t, dec("7").Equal(calc.Result))
}

func TestFromRecordFailures(t *testing.T) {
	good := Record{Operation: "Addition", Operand1: "1", Operand2: "2", Result: "3", Timestamp: "2026-01-02T03:04:05Z"}

	tests := []struct {
		name    string
		mutate  func(r *Record)
		wantMsg string
	}{
		{"missing operation", func(r *Record) { r.Operation = "" }, "missing operation"},
		{"bad operand1", func(r *Record) { r.Operand1 = "x" }, "invalid operand1"},
		{"bad operand2", func(r *Record) { r.Operand2 = "" }, "invalid operand2"},
		{"bad result", func(r *Record) { r.Result = "NaN?" }, "invalid result"},
		{"bad timestamp", func(r *Record) { r.Timestamp = "yesterday" }, "invalid timestamp"},
		{"unknown operation", func(r *Record) { r.Operation = "Teleport" }, "Unknown operation"},
		{"invalid operands", func(r *Record) { r.Operation = "Division"; r.Operand2 = "0" }, "Division by zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := good
			tt.mutate(&rec)
			_, err := FromRecord(rec, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrOperation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromRecordIntegrityWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	calc, err := FromRecordWithRegistry(operation.NewRegistry(), Record{
		Operation: "Addition",
		Operand1:  "2",
		Operand2:  "2",
		Result:    "5",
		Timestamp: "2026-01-02T03:04:05Z",
	}, logger)
	require.NoError(t, err)
	assert.True(t, dec("4").Equal(calc.Result), "recomputed result wins")

	entries := logs.FilterMessage("stored result does not match recomputed result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "5", entries[0].ContextMap()["stored"])
	assert.Equal(t, "4", entries[0].ContextMap()["computed"])
}
