package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/spring"
)

func newSweepCmd() *cobra.Command {
	var (
		flags        runFlags
		tension      optim.Range
		friction     optim.Range
		maxOvershoot float64
		workers      int
		top          int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search tension and friction for the fastest settle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			g := optim.NewGridSearch(tension, friction)
			g.Workers = workers

			log.WithFields(map[string]any{
				"points":        len(tension.Values()) * len(friction.Values()),
				"max_overshoot": maxOvershoot,
			}).Info("starting sweep")

			cands, err := g.Search(ctx, optim.ExperimentEvaluator(cfg.Experiment()))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TENSION\tFRICTION\tREGIME\tSETTLE\tOVERSHOOT")
			for i, c := range optim.Rank(cands) {
				if i >= top {
					break
				}
				settle := "-"
				if c.SettleTime >= 0 {
					settle = fmt.Sprintf("%.3fs", c.SettleTime)
				}
				fmt.Fprintf(w, "%.1f\t%.1f\t%s\t%s\t%.4f\n",
					c.Config.Tension, c.Config.Friction, spring.RegimeOf(c.Config), settle, c.Overshoot)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			best, err := optim.Best(cands, maxOvershoot)
			if errors.Is(err, optim.ErrNoCandidate) {
				fmt.Printf("\nno configuration settled with overshoot <= %.3f\n", maxOvershoot)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("\nbest: %s (settles in %.3fs, overshoot %.4f)\n",
				best.Config, best.SettleTime, best.Overshoot)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&tension.Min, "tension-min", 50, "lowest tension")
	cmd.Flags().Float64Var(&tension.Max, "tension-max", 500, "highest tension")
	cmd.Flags().IntVar(&tension.Steps, "tension-steps", 10, "tension grid points")
	cmd.Flags().Float64Var(&friction.Min, "friction-min", 5, "lowest friction")
	cmd.Flags().Float64Var(&friction.Max, "friction-max", 60, "highest friction")
	cmd.Flags().IntVar(&friction.Steps, "friction-steps", 12, "friction grid points")
	cmd.Flags().Float64Var(&maxOvershoot, "max-overshoot", 0.05, "overshoot ceiling as a fraction of the move")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&top, "top", 10, "rows to print")
	return cmd
}
