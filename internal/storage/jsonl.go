package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/abacus/internal/calculation"
)

// jsonlLine is the on-disk shape of one JSONL history entry.
type jsonlLine struct {
	ID string `json:"id"`
	calculation.Record
}

// JSONLStore keeps history as one JSON object per line.
type JSONLStore struct {
	path string
}

// NewJSONLStore returns a JSONLStore backed by path.
func NewJSONLStore(path string) *JSONLStore {
	return &JSONLStore{path: path}
}

// Path returns the backing file path.
func (s *JSONLStore) Path() string { return s.path }

// Save writes one line per record, each tagged with a fresh UUID v7.
func (s *JSONLStore) Save(records []calculation.Record) error {
	return writeAtomic(s.path, func(w *bufio.Writer) error {
		for _, rec := range records {
			line, err := json.Marshal(jsonlLine{ID: generateID(), Record: rec})
			if err != nil {
				return fmt.Errorf("encoding record: %w", err)
			}
			if _, err := w.Write(line); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
			if err := w.WriteByte('\n'); err != nil {
				return fmt.Errorf("writing newline: %w", err)
			}
		}
		return nil
	})
}

// Load returns the records in file order. Blank and malformed lines are
// skipped. A missing file yields no records.
func (s *JSONLStore) Load() ([]calculation.Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	var records []calculation.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry jsonlLine
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		records = append(records, entry.Record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.path, err)
	}
	return records, nil
}

// generateID returns a UUID v7, falling back to v4 if v7 generation fails.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
