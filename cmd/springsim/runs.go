package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/storage"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tSPRING\tINTEG\tFPS\tDURATION\tSETTLED")
			for _, run := range runs {
				settled := "no"
				if run.SettledAt >= 0 {
					settled = fmt.Sprintf("%.3fs", run.SettledAt)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2fs\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Spring,
					run.Integrator,
					run.FPS,
					run.Duration,
					settled,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var phase bool

	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			result, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}
			if len(result.States) == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("spring: %s\n", meta.Spring)
			fmt.Printf("samples: %d\n\n", len(result.States))
			printPlot(result, "value")
			if phase {
				fmt.Println("phase (offset vs velocity):")
				fmt.Print(analysis.PhasePortraitToASCII(analysis.PhasePortrait(result), 60, 20))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&phase, "phase", false, "also draw the phase portrait")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "write a saved run to stdout as csv, json or svg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			result, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}
			return export.Write(os.Stdout, export.Format(format), *meta, result)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "csv, json or svg")
	return cmd
}
