// Package config loads calculator settings from config.yaml and CALCULATOR_*
// environment variables using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/abacus/internal/paths"
	"github.com/mesh-intelligence/abacus/internal/storage"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix prefixes every environment override, e.g.
	// CALCULATOR_MAX_HISTORY_SIZE.
	EnvPrefix = "CALCULATOR"
)

// Config keys, shared by config.yaml and the environment.
const (
	KeyBaseDir         = "base_dir"
	KeyLogDir          = "log_dir"
	KeyLogFile         = "log_file"
	KeyHistoryDir      = "history_dir"
	KeyHistoryFile     = "history_file"
	KeyHistoryFormat   = "history_format"
	KeyMaxHistorySize  = "max_history_size"
	KeyAutoSave        = "auto_save"
	KeyPrecision       = "precision"
	KeyMaxInputValue   = "max_input_value"
	KeyDefaultEncoding = "default_encoding"
	KeyLogLevel        = "log_level"
)

var allKeys = []string{
	KeyBaseDir, KeyLogDir, KeyLogFile, KeyHistoryDir, KeyHistoryFile,
	KeyHistoryFormat, KeyMaxHistorySize, KeyAutoSave, KeyPrecision,
	KeyMaxInputValue, KeyDefaultEncoding, KeyLogLevel,
}

// Overrides carries command-line flag values. Empty fields are ignored.
type Overrides struct {
	BaseDir       string
	HistoryFormat string
}

// Load reads config.yaml from configDir, applies environment variables and
// overrides, derives the directory layout, and validates the result.
// A missing config.yaml is not an error.
func Load(configDir string, o Overrides) (types.Config, error) {
	v, err := newViper(configDir)
	if err != nil {
		return types.Config{}, err
	}
	if o.HistoryFormat != "" {
		v.Set(KeyHistoryFormat, o.HistoryFormat)
	}

	cfg := types.DefaultConfig()
	cfg.HistoryFormat = v.GetString(KeyHistoryFormat)
	cfg.DefaultEncoding = v.GetString(KeyDefaultEncoding)
	cfg.LogLevel = v.GetString(KeyLogLevel)

	if cfg.MaxHistorySize, err = cast.ToIntE(v.Get(KeyMaxHistorySize)); err != nil {
		return types.Config{}, invalidValue(KeyMaxHistorySize, err)
	}
	if cfg.Precision, err = cast.ToIntE(v.Get(KeyPrecision)); err != nil {
		return types.Config{}, invalidValue(KeyPrecision, err)
	}
	if cfg.AutoSave, err = cast.ToBoolE(v.Get(KeyAutoSave)); err != nil {
		return types.Config{}, invalidValue(KeyAutoSave, err)
	}
	if cfg.MaxInputValue, err = decimal.NewFromString(cast.ToString(v.Get(KeyMaxInputValue))); err != nil {
		return types.Config{}, invalidValue(KeyMaxInputValue, err)
	}

	if cfg.BaseDir, err = paths.ResolveBaseDir(o.BaseDir, v.GetString(KeyBaseDir)); err != nil {
		return types.Config{}, fmt.Errorf("resolve base dir: %w", err)
	}
	cfg.LogDir = orDefault(v.GetString(KeyLogDir), paths.LogDir(cfg.BaseDir))
	cfg.LogFile = orDefault(v.GetString(KeyLogFile), filepath.Join(cfg.LogDir, types.DefaultLogFileName))
	cfg.HistoryDir = orDefault(v.GetString(KeyHistoryDir), paths.HistoryDir(cfg.BaseDir))
	cfg.HistoryFile = orDefault(v.GetString(KeyHistoryFile), storage.DefaultPath(cfg.HistoryDir, cfg.HistoryFormat))

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func newViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyHistoryFormat, types.DefaultHistoryFormat)
	v.SetDefault(KeyMaxHistorySize, types.DefaultMaxHistorySize)
	v.SetDefault(KeyAutoSave, types.DefaultAutoSave)
	v.SetDefault(KeyPrecision, types.DefaultPrecision)
	v.SetDefault(KeyMaxInputValue, types.DefaultMaxInputValue)
	v.SetDefault(KeyDefaultEncoding, types.DefaultEncoding)
	v.SetDefault(KeyLogLevel, types.DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range allKeys {
		input := []string{key}
		if key == KeyBaseDir {
			input = append(input, paths.EnvBaseDir)
		}
		if err := v.BindEnv(input...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if configDir == "" {
		return v, nil
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func invalidValue(key string, err error) error {
	return &types.ConfigurationError{Field: key, Msg: err.Error()}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// fileConfig is the structure written to config.yaml by WriteDefault.
type fileConfig struct {
	BaseDir         string `yaml:"base_dir,omitempty"`
	HistoryFormat   string `yaml:"history_format"`
	MaxHistorySize  int    `yaml:"max_history_size"`
	AutoSave        bool   `yaml:"auto_save"`
	Precision       int    `yaml:"precision"`
	MaxInputValue   string `yaml:"max_input_value"`
	DefaultEncoding string `yaml:"default_encoding"`
	LogLevel        string `yaml:"log_level"`
}

// WriteDefault creates configDir and writes a config.yaml holding the
// default settings, unless one already exists. It returns the file path and
// whether a file was written.
func WriteDefault(configDir, baseDir string) (string, bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return path, false, fmt.Errorf("create config directory: %w", err)
	}

	_, err := os.Stat(path)
	if err == nil {
		return path, false, nil
	}
	if !os.IsNotExist(err) {
		return path, false, fmt.Errorf("stat config file: %w", err)
	}

	def := types.DefaultConfig()
	data, err := yaml.Marshal(&fileConfig{
		BaseDir:         baseDir,
		HistoryFormat:   def.HistoryFormat,
		MaxHistorySize:  def.MaxHistorySize,
		AutoSave:        def.AutoSave,
		Precision:       def.Precision,
		MaxInputValue:   def.MaxInputValue.String(),
		DefaultEncoding: def.DefaultEncoding,
		LogLevel:        def.LogLevel,
	})
	if err != nil {
		return path, false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, false, err
	}
	return path, true, nil
}
