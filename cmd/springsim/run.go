package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/storage"
)

// stabilityBound is the magnitude past which a sample counts as unstable.
const stabilityBound = 1e6

func newRunCmd() *cobra.Command {
	var (
		flags runFlags
		save  bool
		name  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "replay a target script headlessly and summarize it",
		Example: `  springsim run --to 1
  springsim run --preset wobbly --to 100 --to -50@0.5 --time 3 --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			result, err := runExperiment(ctx, cfg)
			if err != nil {
				return err
			}

			printPlot(result, fmt.Sprintf("value (%s)", cfg.Spring))
			if err := printSummary(cfg, result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			if name == "" {
				name = flags.preset
			}
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(runMetadata(name, cfg), result)
			if err != nil {
				return err
			}
			log.WithFields(map[string]any{"run_id": runID}).Info("run saved")
			fmt.Printf("\nsaved: %s\n", runID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	cmd.Flags().StringVar(&name, "name", "", "run name prefix when saving")
	return cmd
}

func runExperiment(ctx context.Context, cfg *config.Config) (*dynamo.Result, error) {
	e := experiment.New(cfg.Experiment(), log.Zerolog())
	if err := e.Setup(); err != nil {
		return nil, err
	}
	e.AddMetric(metrics.Defaults(e.System(), spring.RestThreshold, stabilityBound)...)

	log.WithFields(map[string]any{
		"spring":     cfg.Spring.String(),
		"integrator": cfg.Integrator,
		"fps":        cfg.FPS,
		"duration":   cfg.Duration,
	}).Debug("running experiment")

	return e.Run(ctx)
}

func runMetadata(name string, cfg *config.Config) storage.RunMetadata {
	ec := cfg.Experiment()
	return storage.RunMetadata{
		Name:       name,
		Spring:     cfg.Spring,
		Integrator: cfg.Integrator,
		FPS:        cfg.FPS,
		Duration:   cfg.Duration,
		Initial:    cfg.Initial,
		Targets:    ec.Targets,
	}
}

func printPlot(result *dynamo.Result, caption string) {
	values := result.Column(0)
	if len(values) < 2 {
		return
	}
	fmt.Println(asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
}

func printSummary(cfg *config.Config, result *dynamo.Result) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	regime := spring.RegimeOf(cfg.Spring)
	fmt.Fprintf(w, "regime\t%s (ζ=%.3f)\n", regime, cfg.Spring.DampingRatio())
	if regime == spring.Underdamped {
		fmt.Fprintf(w, "ringing\t%.3f Hz (predicted %.3f Hz)\n",
			analysis.DominantFrequency(result.Column(0), float64(cfg.FPS)),
			analysis.DampedFrequency(cfg.Spring))
	}
	fmt.Fprintf(w, "integrator\t%s\n", cfg.Integrator)
	fmt.Fprintf(w, "samples\t%d\n", len(result.States))
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	if final := result.Final(); final != nil {
		fmt.Fprintf(w, "final\t%.6g\n", final[0])
	}
	if result.SettledAt < 0 {
		fmt.Fprintf(w, "settled\tno\n")
	} else {
		fmt.Fprintf(w, "settled\t%.3fs\n", result.SettledAt)
	}

	names := make([]string, 0, len(result.Metrics))
	for k := range result.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", k, result.Metrics[k])
	}
	return w.Flush()
}
