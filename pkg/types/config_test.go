package types

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "zero history size rejected",
			mutate:    func(c *Config) { c.MaxHistorySize = 0 },
			wantField: "max_history_size",
		},
		{
			name:      "negative history size rejected",
			mutate:    func(c *Config) { c.MaxHistorySize = -5 },
			wantField: "max_history_size",
		},
		{
			name:      "negative precision rejected",
			mutate:    func(c *Config) { c.Precision = -1 },
			wantField: "precision",
		},
		{
			name:   "zero precision is valid",
			mutate: func(c *Config) { c.Precision = 0 },
		},
		{
			name:      "zero max input rejected",
			mutate:    func(c *Config) { c.MaxInputValue = decimal.Zero },
			wantField: "max_input_value",
		},
		{
			name:      "negative max input rejected",
			mutate:    func(c *Config) { c.MaxInputValue = decimal.NewFromInt(-1) },
			wantField: "max_input_value",
		},
		{
			name:      "unknown format rejected",
			mutate:    func(c *Config) { c.HistoryFormat = "xml" },
			wantField: "history_format",
		},
		{
			name:   "sqlite format is valid",
			mutate: func(c *Config) { c.HistoryFormat = FormatSQLite },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigurationError, got %T", err)
			}
			if ce.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q", tt.wantField, ce.Field)
			}
		})
	}
}
