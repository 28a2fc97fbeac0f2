package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/logger"
	"github.com/san-kum/springsim/internal/viz"
)

func newLiveCmd() *cobra.Command {
	var (
		preset  string
		fps     int
		theme   string
		snapDir string
		logFile string
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "chase a target around the terminal with a pair of springs",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := make([]viz.Preset, 0, len(config.Presets))
			for _, name := range config.ListPresets() {
				presets = append(presets, viz.Preset{Name: name, Config: config.Presets[name]})
			}
			if preset != "" {
				if _, err := config.GetPreset(preset); err != nil {
					return err
				}
			}

			if !cmd.Flags().Changed("fps") && configFile != "" {
				if cfg, err := config.Load(configFile); err == nil {
					fps = cfg.FPS
				}
			}

			// The terminal belongs to the view, so logs only go to a file.
			zl := zerolog.Nop()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				l, err := logger.New(logger.Options{Level: logLevel, Writer: f})
				if err != nil {
					return err
				}
				zl = l.Zerolog()
			}

			return viz.Run(viz.Options{
				Presets:     presets,
				Preset:      preset,
				FPS:         fps,
				Theme:       theme,
				SnapshotDir: snapDir,
				Seed:        seed,
				Logger:      zl,
			})
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "default", "initial spring preset")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	cmd.Flags().StringVar(&snapDir, "snapshots", ".", "directory for svg snapshots")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the view runs")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for random targets")
	return cmd
}
