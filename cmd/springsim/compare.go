package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
)

const reference = "analytic"

func newCompareCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "compare [integrators...]",
		Short: "replay the same script with several integrators",
		Long: "compare runs the target script once per integrator and reports how far\n" +
			"each trajectory strays from the closed-form solution.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = integrators.Names()
			}

			ctx := context.Background()
			refCfg := *cfg
			refCfg.Integrator = reference
			ref, err := runExperiment(ctx, &refCfg)
			if err != nil {
				return fmt.Errorf("reference run: %w", err)
			}

			fmt.Printf("comparing integrators (%s, %d fps, %.2fs)\n\n", cfg.Spring, cfg.FPS, cfg.Duration)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tSETTLED\tOVERSHOOT\tMAX_DEV\tTIME_MS")
			fmt.Fprintln(w, strings.Repeat("-", 10)+"\t"+strings.Repeat("-", 7)+"\t"+
				strings.Repeat("-", 9)+"\t"+strings.Repeat("-", 7)+"\t"+strings.Repeat("-", 7))

			for _, name := range names {
				run := *cfg
				run.Integrator = name

				start := time.Now()
				result, err := runExperiment(ctx, &run)
				elapsed := time.Since(start)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", name, err)
					continue
				}

				settled := "no"
				if result.SettledAt >= 0 {
					settled = fmt.Sprintf("%.3fs", result.SettledAt)
				}
				fmt.Fprintf(w, "%s\t%s\t%.4f\t%.2e\t%.2f\n",
					name,
					settled,
					result.Metrics["overshoot"],
					maxDeviation(result, ref),
					float64(elapsed.Microseconds())/1000,
				)
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}

// maxDeviation is the largest |value - reference value| over shared samples.
func maxDeviation(a, b *dynamo.Result) float64 {
	n := min(len(a.States), len(b.States))
	dev := 0.0
	for i := 0; i < n; i++ {
		dev = math.Max(dev, math.Abs(a.States[i][0]-b.States[i][0]))
	}
	return dev
}
