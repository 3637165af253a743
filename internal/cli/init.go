package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/internal/config"
	"github.com/mesh-intelligence/abacus/internal/paths"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and data directories",
		Long: "Write a default config.yaml if none exists, then create the log and\n" +
			"history directories it points to.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}

			baseDir := flags.baseDir
			if baseDir != "" {
				if baseDir, err = filepath.Abs(baseDir); err != nil {
					return fmt.Errorf("resolve base dir: %w", err)
				}
			}

			path, created, err := config.WriteDefault(configDir, baseDir)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			for _, dir := range []string{cfg.LogDir, cfg.HistoryDir} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create directory: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Wrote %s\n", path)
			} else {
				fmt.Fprintf(out, "Using existing %s\n", path)
			}
			fmt.Fprintf(out, "History: %s\nLog: %s\n", cfg.HistoryFile, cfg.LogFile)
			fmt.Fprintln(out, styles.Success.Render("Calculator initialized successfully"))
			return nil
		},
	}
}
