package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/logger"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logHuman   bool

	log *logger.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "springsim",
		Short:             "spring animation lab",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogger,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logHuman, "log-human", false, "human readable log output")

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newScenarioCmd(),
		newJitterCmd(),
		newPresetsCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err, "command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogger builds the process logger. The config file's log section
// applies unless the matching flag was given.
func setupLogger(cmd *cobra.Command, args []string) error {
	opts := logger.Options{Level: logLevel, HumanReadable: logHuman}
	if configFile != "" {
		if cfg, err := config.Load(configFile); err == nil {
			if !cmd.Flags().Changed("log-level") && cfg.Log.Level != "" {
				opts.Level = cfg.Log.Level
			}
			if !cmd.Flags().Changed("log-human") {
				opts.HumanReadable = cfg.Log.Human
			}
		}
	}

	l, err := logger.New(opts)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	log = l
	return nil
}
