package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/spring"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list spring presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTENSION\tFRICTION\tZETA\tREGIME")
			for _, name := range config.ListPresets() {
				c := config.Presets[name]
				fmt.Fprintf(w, "%s\t%g\t%g\t%.3f\t%s\n",
					name, c.Tension, c.Friction, c.DampingRatio(), spring.RegimeOf(c))
			}
			return w.Flush()
		},
	}
}
