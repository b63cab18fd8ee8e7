package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/config"
	"github.com/rgehrsitz/revimpact/internal/dataset"
	"github.com/rgehrsitz/revimpact/internal/output"
)

func newDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the embedded cohort datasets",
		Long: `List each embedded tax-year vintage with its filer count and reported state
liability against the published benchmark, followed by any cohorts whose reported
liability disagrees with the bracket schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTAX YEAR\tCOHORTS\tFILERS\tNYS LIABILITY\tBENCHMARK\tCOVERAGE\t")

			var notes []string
			for _, name := range dataset.Names() {
				ds, err := dataset.Lookup(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == a.settings.Dataset {
					marker = " *"
				}
				liability := ds.TotalNYSLiability()
				coverage := "-"
				if ds.BenchmarkNYSLiability.IsPositive() {
					coverage = output.FormatPercentage(liability.Div(ds.BenchmarkNYSLiability), 1)
				}
				fmt.Fprintf(tw, "%s%s\t%d\t%d\t%s\t%s\t%s\t%s\t\n",
					ds.Name, marker, ds.TaxYear, len(ds.Cohorts),
					output.FormatCount(ds.TotalFilers()),
					output.FormatCurrency(liability),
					output.FormatCurrency(ds.BenchmarkNYSLiability),
					coverage)

				for _, w := range calculation.CrossCheck(ds) {
					notes = append(notes, fmt.Sprintf("  %s %s: %s (%s)",
						ds.Name, w.Cohort, w.Message, output.FormatPercentage(w.Deviation, 1)))
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(notes) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Cross-check warnings:")
				for _, n := range notes {
					fmt.Fprintln(out, n)
				}
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [run-file]",
		Short: "Validate a run file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s is valid\n", args[0])
			if cfg.Dataset != "" {
				fmt.Fprintf(out, "  dataset: %s\n", cfg.Dataset)
			}
			fmt.Fprintf(out, "  scenarios: %d\n", len(cfg.Scenarios))
			for i := range cfg.Scenarios {
				s := &cfg.Scenarios[i]
				fmt.Fprintf(out, "  - %s: %s surcharge above %s, %s\n",
					s.Name,
					output.FormatPercentage(s.Policy.SurchargeRate, 2),
					output.FormatCurrency(s.Policy.SurchargeThreshold),
					behavioralLabel(s.Preset, s.Behavioral != nil))
			}
			return nil
		},
	}
}

func behavioralLabel(preset string, custom bool) string {
	switch {
	case custom:
		return "custom behavioral parameters"
	case preset != "":
		return preset + " preset"
	default:
		return "default behavioral parameters"
	}
}
