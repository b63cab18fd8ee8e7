package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/domain"
	"github.com/rgehrsitz/revimpact/internal/output"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets [run-file]",
		Short: "Run a scenario under every behavioral preset",
		Long: `Run the same policy under the static, conservative, moderate and aggressive
behavioral presets and compare net revenue.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(cmd, args)
			if err != nil {
				return err
			}
			formatter, err := sensitivityFormatter(cmd)
			if err != nil {
				return err
			}

			results, err := a.engine.RunPresets(cmd.Context(), in.Dataset, in.Band, in.Scenario)
			if err != nil {
				return err
			}
			text, err := formatter.FormatSensitivityAnalysis(results)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format: console, csv, json")
	return cmd
}

func newSensitivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [run-file]",
		Short: "Sweep one parameter and report net revenue at each value",
		Long: `Sweep one policy or behavioral parameter across a range with everything else held
fixed, and report where net revenue turns negative.

Examples:
  revimpact sensitivity --parameter surcharge_rate
  revimpact sensitivity scenarios.yaml --parameter migration_elasticity --min 0 --max 4 --steps 9`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(cmd, args)
			if err != nil {
				return err
			}
			formatter, err := sensitivityFormatter(cmd)
			if err != nil {
				return err
			}
			param, err := sweepParameter(cmd)
			if err != nil {
				return err
			}

			analysis, err := calculation.NewSensitivityAnalyzer(a.engine).AnalyzeParameter(cmd.Context(), in.Dataset, in.Band, in.Scenario, param)
			if err != nil {
				return err
			}
			text, err := formatter.FormatSensitivityAnalysis(analysis)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().StringP("parameter", "p", "surcharge_rate", "Parameter to sweep: "+strings.Join(calculation.SweepableParameters(), ", "))
	cmd.Flags().Float64("min", 0, "Sweep start (default from the parameter's preset range)")
	cmd.Flags().Float64("max", 0, "Sweep end (default from the parameter's preset range)")
	cmd.Flags().Int("steps", 0, "Number of sweep points (default from the parameter's preset range)")
	cmd.Flags().StringP("format", "f", "console", "Output format: console, csv, json")
	return cmd
}

func sensitivityFormatter(cmd *cobra.Command) (output.SensitivityFormatter, error) {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetSensitivityFormatter(format)
	if f == nil {
		return nil, eris.Errorf("unknown format %q (available: console, csv, json)", format)
	}
	return f, nil
}

// sweepParameter starts from the predefined range for the parameter and applies any flags set.
// Parameters without a predefined range need both --min and --max.
func sweepParameter(cmd *cobra.Command) (domain.SensitivityParameter, error) {
	f := cmd.Flags()
	name, _ := f.GetString("parameter")

	param, ok := domain.CommonParameter(name)
	if !ok {
		if !f.Changed("min") || !f.Changed("max") {
			return param, eris.Errorf("parameter %s has no default range; set --min and --max", name)
		}
		param = domain.SensitivityParameter{Name: name, Steps: 11}
	}

	if f.Changed("min") {
		v, _ := f.GetFloat64("min")
		param.MinValue = decimal.NewFromFloat(v)
	}
	if f.Changed("max") {
		v, _ := f.GetFloat64("max")
		param.MaxValue = decimal.NewFromFloat(v)
	}
	if f.Changed("steps") {
		param.Steps, _ = f.GetInt("steps")
	}
	if param.Steps < 2 {
		return param, eris.Errorf("--steps must be at least 2, got %d", param.Steps)
	}
	return param, nil
}
