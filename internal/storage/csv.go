package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/mesh-intelligence/abacus/internal/calculation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// CSVStore keeps history in a CSV file whose first row is the column header.
type CSVStore struct {
	path string
}

// NewCSVStore returns a CSVStore backed by path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string { return s.path }

// Save writes the header and one row per record. An empty slice writes the
// header only.
func (s *CSVStore) Save(records []calculation.Record) error {
	return writeAtomic(s.path, func(w *bufio.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(calculation.Columns); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, rec := range records {
			if err := cw.Write(rec.Values()); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// Load reads every row after the header. A missing file yields no records.
// Columns are matched by header name, so their order in the file may vary.
func (s *CSVStore) Load() ([]calculation.Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make([]int, len(calculation.Columns))
	for i, col := range calculation.Columns {
		index[i] = slices.Index(header, col)
		if index[i] < 0 {
			return nil, fmt.Errorf("%w: missing column %q", types.ErrMalformedRecord, col)
		}
	}

	var records []calculation.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		values := make([]string, len(index))
		for i, idx := range index {
			values[i] = row[idx]
		}
		rec, err := calculation.RecordFromValues(values)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
