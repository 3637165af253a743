package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLLinesCarryIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, NewJSONLStore(path).Save(sampleRecords))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, len(sampleRecords))

	var entry map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	id, err := uuid.Parse(entry["id"])
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, "Addition", entry["operation"])
}

func TestJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"operation":"Addition","operand1":"5","operand2":"4","result":"9","timestamp":"2026-01-02T03:04:05Z"}
not json at all

{"operation":"Subtraction","operand1":"-1.25","operand2":"2","result":"-3.25","timestamp":"2026-01-02T03:04:07Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewJSONLStore(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sampleRecords[0], got[0])
	assert.Equal(t, sampleRecords[2], got[1])
}
