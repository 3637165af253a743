package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{" warning ", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calculator.log")

	logger, closeFn, err := New(path, "info")
	require.NoError(t, err)

	logger.Info("Calculation performed: addition (2, 3) = 5")
	logger.Debug("hidden")
	logger.Warn("careful", zap.String("operation", "Division"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "Calculation performed: addition (2, 3) = 5")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "Division")
	assert.NotContains(t, out, "hidden")
}

func TestNewAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calculator.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	logger, closeFn, err := New(path, "")
	require.NoError(t, err)
	logger.Info("next")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "existing\n")
	assert.Contains(t, string(data), "next")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
	logger.Info("discarded")
}
