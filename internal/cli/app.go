package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/abacus/internal/config"
	"github.com/mesh-intelligence/abacus/internal/history"
	"github.com/mesh-intelligence/abacus/internal/logging"
	"github.com/mesh-intelligence/abacus/internal/operation"
	"github.com/mesh-intelligence/abacus/internal/paths"
	"github.com/mesh-intelligence/abacus/internal/storage"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// app bundles the runtime state a command needs: resolved configuration,
// the audit logger, and a history manager wired to its store and observers.
type app struct {
	cfg      types.Config
	logger   *zap.Logger
	registry *operation.Registry
	mgr      *history.Manager
	closeLog func() error

	// loadErr is set when the persisted history could not be loaded at
	// startup. The manager starts empty in that case.
	loadErr error
}

// loadConfig resolves the config directory and loads the configuration.
func loadConfig(flags *rootFlags) (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	return config.Load(configDir, config.Overrides{
		BaseDir:       flags.baseDir,
		HistoryFormat: flags.format,
	})
}

// openApp loads configuration, opens the log file and history store, and
// builds a manager with the logging and auto-save observers attached. A
// failure to load existing history is logged and recorded in loadErr.
// The caller must call Close.
func openApp(flags *rootFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	store, err := storage.Open(cfg.HistoryFormat, cfg.HistoryFile)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	reg := operation.Default()
	mgr, err := history.NewManager(cfg,
		history.WithRegistry(reg),
		history.WithStore(store),
		history.WithLogger(logger),
	)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	mgr.AddObserver(history.NewLoggingObserver(logger))
	mgr.AddObserver(history.NewAutoSaveObserver(mgr, cfg.AutoSave, logger))

	a := &app{cfg: cfg, logger: logger, registry: reg, mgr: mgr, closeLog: closeLog}
	if err := mgr.LoadHistory(); err != nil {
		logger.Warn("Could not load existing history, starting empty", zap.Error(err))
		a.loadErr = err
	}

	logger.Info("Calculator initialized",
		zap.String("history_file", cfg.HistoryFile),
		zap.String("history_format", cfg.HistoryFormat),
		zap.Int("max_history_size", cfg.MaxHistorySize),
		zap.Bool("auto_save", cfg.AutoSave),
	)
	return a, nil
}

// Close flushes and closes the log file.
func (a *app) Close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}
