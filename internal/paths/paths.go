// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory name used under platform config and data roots.
const appDirName = "abacus"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ABACUS_CONFIG_DIR"
	EnvBaseDir   = "CALCULATOR_BASE_DIR"
)

// Subdirectory and file names under the base directory.
const (
	LogDirName     = "logs"
	HistoryDirName = "history"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/abacus (fallback ~/.config/abacus)
// macOS:   ~/Library/Application Support/abacus
// Windows: %APPDATA%/abacus
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultBaseDir returns the platform-specific default base directory that
// holds the logs and history subdirectories.
//
// Linux:   $XDG_DATA_HOME/abacus (fallback ~/.local/share/abacus)
// macOS:   ~/Library/Application Support/abacus
// Windows: %APPDATA%/abacus
func DefaultBaseDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > ABACUS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveBaseDir returns the base directory following the precedence chain:
// flag > configured value > DefaultBaseDir(). The configured value already
// reflects CALCULATOR_BASE_DIR when the config loader read it from the
// environment.
func ResolveBaseDir(flag, configured string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configured != "" {
		return filepath.Abs(configured)
	}
	return DefaultBaseDir()
}

// LogDir returns the log directory under base.
func LogDir(base string) string { return filepath.Join(base, LogDirName) }

// HistoryDir returns the history directory under base.
func HistoryDir(base string) string { return filepath.Join(base, HistoryDirName) }
