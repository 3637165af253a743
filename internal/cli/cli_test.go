package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// envKeys lists every CALCULATOR_* variable the loader reads.
var envKeys = []string{
	"BASE_DIR", "LOG_DIR", "LOG_FILE", "HISTORY_DIR", "HISTORY_FILE",
	"HISTORY_FORMAT", "MAX_HISTORY_SIZE", "AUTO_SAVE", "PRECISION",
	"MAX_INPUT_VALUE", "DEFAULT_ENCODING", "LOG_LEVEL",
}

// env isolates a test from the caller's environment and returns global
// flags pointing at fresh config and base directories.
type env struct {
	configDir string
	baseDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv("CALCULATOR_"+k, "")
		os.Unsetenv("CALCULATOR_" + k)
	}
	return env{configDir: t.TempDir(), baseDir: t.TempDir()}
}

func (e env) args(args ...string) []string {
	return append([]string{"--config-dir", e.configDir, "--base-dir", e.baseDir}, args...)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "abacus v0.1.0")
	assert.Contains(t, out, "module: github.com/mesh-intelligence/abacus")
}

func TestCalcPrintsResultAndPersists(t *testing.T) {
	e := newEnv(t)

	out, _, err := execute(t, "", e.args("calc", "add", "2", "3")...)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, _, err = execute(t, "", e.args("calc", "multiply", "4", "2.5")...)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)

	out, _, err = execute(t, "", e.args("history")...)
	require.NoError(t, err)
	assert.Equal(t, "1. Addition(2, 3) = 5\n2. Multiplication(4, 2.5) = 10\n", out)

	assert.FileExists(t, filepath.Join(e.baseDir, "history", "calculator_history.csv"))
	logData, err := os.ReadFile(filepath.Join(e.baseDir, "logs", "calculator.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Calculation performed: addition (2, 3) = 5")
}

func TestCalcNegativeOperand(t *testing.T) {
	e := newEnv(t)
	out, _, err := execute(t, "", e.args("calc", "subtract", "--", "-2", "5")...)
	require.NoError(t, err)
	assert.Equal(t, "-7\n", out)
}

func TestCalcRoundsToPrecision(t *testing.T) {
	e := newEnv(t)
	t.Setenv("CALCULATOR_PRECISION", "3")

	out, _, err := execute(t, "", e.args("calc", "divide", "1", "3")...)
	require.NoError(t, err)
	assert.Equal(t, "0.333\n", out)
}

func TestCalcErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind error
		msg  string
	}{
		{"division by zero", []string{"divide", "1", "0"}, types.ErrValidation, "Division by zero is not allowed."},
		{"bad number", []string{"add", "two", "3"}, types.ErrValidation, "Invalid number format: two"},
		{"too large", []string{"add", "2000000", "1"}, types.ErrValidation, "Input exceeds maximum allowed value: 1000000"},
		{"unknown operation", []string{"factorial", "1", "2"}, types.ErrOperation, "Unknown operation type: factorial"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, _, err := execute(t, "", e.args(append([]string{"calc"}, tt.args...)...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestCalcRequiresThreeArgs(t *testing.T) {
	e := newEnv(t)
	_, _, err := execute(t, "", e.args("calc", "add", "1")...)
	assert.Error(t, err)
}

func TestCalcWithoutAutoSave(t *testing.T) {
	e := newEnv(t)
	t.Setenv("CALCULATOR_AUTO_SAVE", "false")

	_, _, err := execute(t, "", e.args("calc", "add", "1", "1")...)
	require.NoError(t, err)

	out, _, err := execute(t, "", e.args("history")...)
	require.NoError(t, err)
	assert.Equal(t, "No calculations performed yet.\n", out)
}

func TestHistoryFormats(t *testing.T) {
	for _, format := range []string{types.FormatCSV, types.FormatJSONL, types.FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			e := newEnv(t)
			_, _, err := execute(t, "", e.args("--format", format, "calc", "power", "2", "10")...)
			require.NoError(t, err)

			out, _, err := execute(t, "", e.args("--format", format, "history")...)
			require.NoError(t, err)
			assert.Equal(t, "1. Power(2, 10) = 1024\n", out)
		})
	}
}

func TestHistoryJSON(t *testing.T) {
	e := newEnv(t)
	_, _, err := execute(t, "", e.args("calc", "modulus", "10", "3")...)
	require.NoError(t, err)

	out, _, err := execute(t, "", e.args("history", "--json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"operation": "Modulus"`)
	assert.Contains(t, out, `"result": "1"`)
}

func TestHistoryReportsUnreadableFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.baseDir, "history", "calculator_history.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("operation,operand1,operand2,result,timestamp\nAddition,abc,3,5,2024-01-01T00:00:00\n"), 0o644))

	_, _, err := execute(t, "", e.args("history")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load history")
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	out, _, err := execute(t, "", e.args("init")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+filepath.Join(e.configDir, "config.yaml"))
	assert.Contains(t, out, "Calculator initialized successfully")
	assert.DirExists(t, filepath.Join(e.baseDir, "logs"))
	assert.DirExists(t, filepath.Join(e.baseDir, "history"))

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_history_size: 1000")
	assert.Contains(t, string(data), "base_dir: "+e.baseDir)

	out, _, err = execute(t, "", e.args("init")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Using existing")
}

func TestRootStartsShell(t *testing.T) {
	e := newEnv(t)

	out, _, err := execute(t, "add\n2\n3\nexit\n", e.args()...)
	require.NoError(t, err)
	assert.Contains(t, out, "Calculator REPL started.")
	assert.Contains(t, out, "Result: 5")
	assert.Contains(t, out, "History saved successfully.")
	assert.Contains(t, out, "Exiting calculator REPL. Goodbye!")

	out, _, err = execute(t, "", e.args("history")...)
	require.NoError(t, err)
	assert.Equal(t, "1. Addition(2, 3) = 5\n", out)
}

func TestShellStartsEmptyOnLoadFailure(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.baseDir, "history", "calculator_history.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("operation,operand1,operand2,result,timestamp\nNope,1,2,3,2024-01-01T00:00:00\n"), 0o644))

	out, _, err := execute(t, "history\n", e.args()...)
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: could not load history")
	assert.Contains(t, out, "No calculations performed yet.")
	assert.Contains(t, out, "Input terminated by user.")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.NewValidationError("bad")))
	assert.Equal(t, exitUserError, exitCode(&types.ConfigurationError{Field: "precision", Msg: "bad"}))
	assert.Equal(t, exitSysError, exitCode(errors.New("disk on fire")))
}
