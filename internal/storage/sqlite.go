package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/abacus/internal/calculation"
)

const createCalculations = `CREATE TABLE IF NOT EXISTS calculations (
    calc_id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    operation TEXT NOT NULL,
    operand1 TEXT NOT NULL,
    operand2 TEXT NOT NULL,
    result TEXT NOT NULL,
    timestamp TEXT NOT NULL
);`

const idxCalculationsSeq = `CREATE INDEX IF NOT EXISTS idx_calculations_seq ON calculations(seq);`

// SQLiteStore keeps history in a SQLite database file. The database is
// opened per call; the CLI issues one save or load at a time.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore returns a SQLiteStore backed by the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	for _, ddl := range []string{createCalculations, idxCalculationsSeq} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return db, nil
}

// Save replaces every stored row with records in one transaction.
func (s *SQLiteStore) Save(records []calculation.Record) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM calculations`); err != nil {
		return fmt.Errorf("clearing calculations: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO calculations
        (calc_id, seq, operation, operand1, operand2, result, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(generateID(), i, rec.Operation, rec.Operand1, rec.Operand2, rec.Result, rec.Timestamp); err != nil {
			return fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Load returns the stored records ordered by insertion. A missing database
// file yields no records and does not create one.
func (s *SQLiteStore) Load() ([]calculation.Record, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT operation, operand1, operand2, result, timestamp
        FROM calculations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying calculations: %w", err)
	}
	defer rows.Close()

	var records []calculation.Record
	for rows.Next() {
		var rec calculation.Record
		if err := rows.Scan(&rec.Operation, &rec.Operand1, &rec.Operand2, &rec.Result, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning calculation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calculations: %w", err)
	}
	return records, nil
}
