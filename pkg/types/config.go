package types

import (
	"github.com/shopspring/decimal"
)

// Supported history formats.
const (
	FormatCSV    = "csv"
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// Defaults applied when a value is not configured.
const (
	DefaultMaxHistorySize  = 1000
	DefaultAutoSave        = true
	DefaultPrecision       = 10
	DefaultMaxInputValue   = 1000000
	DefaultEncoding        = "utf-8"
	DefaultHistoryFormat   = FormatCSV
	DefaultLogLevel        = "info"
	DefaultLogFileName     = "calculator.log"
	DefaultHistoryFileBase = "calculator_history"
)

// knownFormats lists the history formats that Validate accepts.
var knownFormats = map[string]bool{
	FormatCSV:    true,
	FormatJSONL:  true,
	FormatSQLite: true,
}

// Config holds calculator settings. It is treated as immutable once Validate
// has succeeded.
type Config struct {
	BaseDir     string `yaml:"base_dir,omitempty"`
	LogDir      string `yaml:"log_dir,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`
	HistoryDir  string `yaml:"history_dir,omitempty"`
	HistoryFile string `yaml:"history_file,omitempty"`

	HistoryFormat   string          `yaml:"history_format"`
	MaxHistorySize  int             `yaml:"max_history_size"`
	AutoSave        bool            `yaml:"auto_save"`
	Precision       int             `yaml:"precision"`
	MaxInputValue   decimal.Decimal `yaml:"max_input_value"`
	DefaultEncoding string          `yaml:"default_encoding"`
	LogLevel        string          `yaml:"log_level"`
}

// DefaultConfig returns a Config populated with the documented defaults.
// Directory fields are left empty; the config loader derives them.
func DefaultConfig() Config {
	return Config{
		HistoryFormat:   DefaultHistoryFormat,
		MaxHistorySize:  DefaultMaxHistorySize,
		AutoSave:        DefaultAutoSave,
		Precision:       DefaultPrecision,
		MaxInputValue:   decimal.NewFromInt(DefaultMaxInputValue),
		DefaultEncoding: DefaultEncoding,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks that the Config is well-formed. It returns a
// *ConfigurationError naming the first offending field.
func (c Config) Validate() error {
	if c.MaxHistorySize <= 0 {
		return &ConfigurationError{Field: "max_history_size", Msg: "maximum history size must be positive"}
	}
	if c.Precision < 0 {
		return &ConfigurationError{Field: "precision", Msg: "precision must be non-negative"}
	}
	if !c.MaxInputValue.IsPositive() {
		return &ConfigurationError{Field: "max_input_value", Msg: "maximum input value must be positive"}
	}
	if c.HistoryFormat != "" && !knownFormats[c.HistoryFormat] {
		return &ConfigurationError{Field: "history_format", Msg: "unknown history format " + c.HistoryFormat}
	}
	return nil
}
