// Package storage persists calculation history in record form.
//
// Three backends share the Store interface: CSV (the default, one header
// row plus one row per calculation), JSONL (one JSON object per line), and
// SQLite (one row per calculation in a calculations table). Every backend
// treats a missing file as an empty history.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/abacus/internal/calculation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Store reads and writes the full history. Save overwrites whatever was
// stored before.
type Store interface {
	Save(records []calculation.Record) error
	Load() ([]calculation.Record, error)
}

// Open returns the Store for format writing to path.
func Open(format, path string) (Store, error) {
	switch format {
	case types.FormatCSV, "":
		return NewCSVStore(path), nil
	case types.FormatJSONL:
		return NewJSONLStore(path), nil
	case types.FormatSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("open %s: %w: %q", path, types.ErrUnknownFormat, format)
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case types.FormatJSONL:
		return ".jsonl"
	case types.FormatSQLite:
		return ".db"
	default:
		return ".csv"
	}
}

// DefaultPath returns the history file path for format inside dir.
func DefaultPath(dir, format string) string {
	return filepath.Join(dir, types.DefaultHistoryFileBase+Extension(format))
}
