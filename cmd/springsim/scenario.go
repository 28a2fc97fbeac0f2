package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/automation"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/storage"
)

func newScenarioCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunScenario(ctx, sc, log.Zerolog())
			if err != nil {
				return err
			}

			var st *storage.Store
			if save {
				st = storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tSPRING\tFINAL\tSETTLED\tRUN")
			for _, r := range results {
				settled := "-"
				if r.Result.SettledAt >= 0 {
					settled = fmt.Sprintf("%.3fs", r.Result.SettledAt)
				}
				runID := "-"
				if st != nil {
					runID, err = st.Save(runMetadata(r.Step.Name, r.Step.Config), r.Result)
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%.6g\t%s\t%s\n",
					r.Step.Name, r.Step.Config.Spring, r.Result.Final()[0], settled, runID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store each step's run in the data directory")
	return cmd
}

func newJitterCmd() *cobra.Command {
	var (
		preset string
		mc     automation.MonteCarloConfig
	)

	cmd := &cobra.Command{
		Use:   "jitter",
		Short: "replay one transition under randomly jittered frame intervals",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := config.GetPreset(preset)
			if err != nil {
				return err
			}
			mc.Spring = sc

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunMonteCarlo(ctx, mc, log.Zerolog())
			if err != nil {
				return err
			}

			st := automation.Summarize(results)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "spring\t%s\n", mc.Spring)
			fmt.Fprintf(w, "trials\t%d\n", len(results))
			fmt.Fprintf(w, "settled\t%d\n", st.Settled)
			fmt.Fprintf(w, "unsettled\t%d\n", st.Unsettled)
			if st.Settled > 0 {
				fmt.Fprintf(w, "steps\t%d..%d\n", st.MinSteps, st.MaxSteps)
				fmt.Fprintf(w, "mean settle\t%s\n", st.MeanSettle.Round(time.Millisecond))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "default", "spring preset")
	cmd.Flags().Float64Var(&mc.From, "from", 0, "start value")
	cmd.Flags().Float64Var(&mc.To, "to", 1, "target value")
	cmd.Flags().DurationVar(&mc.Frame, "frame", 16*time.Millisecond, "mean frame interval")
	cmd.Flags().Float64Var(&mc.Jitter, "jitter", 0.5, "frame interval spread as a fraction of --frame")
	cmd.Flags().IntVar(&mc.Trials, "trials", 100, "number of trials")
	cmd.Flags().DurationVar(&mc.Limit, "limit", 10*time.Second, "simulated time per trial")
	cmd.Flags().Int64Var(&mc.Seed, "seed", 0, "random seed (0 = time based)")
	return cmd
}
