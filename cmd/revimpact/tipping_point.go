package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/breakeven"
)

func newTippingPointCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tipping-point [run-file]",
		Aliases: []string{"breakeven"},
		Short:   "Solve for the parameter value where net revenue turns negative",
		Long: `Search a parameter's range for the value at which net revenue turns negative,
falls to a target, or peaks.

Examples:
  revimpact tipping-point --parameter surcharge_rate --preset aggressive
  revimpact tipping-point --goal target_net --target 1000000000
  revimpact tipping-point scenarios.yaml --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(cmd, args)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			goalName, _ := f.GetString("goal")
			goal, err := breakeven.ParseGoal(goalName)
			if err != nil {
				return err
			}
			format, _ := f.GetString("format")
			if format != "table" && format != "json" {
				return eris.Errorf("unknown format %q (available: table, json)", format)
			}

			solver := breakeven.NewDefaultSolver(a.engine)
			table := &breakeven.TableFormatter{}
			jsonFormatter := &breakeven.JSONFormatter{Pretty: true}

			if all, _ := f.GetBool("all"); all {
				params, _ := f.GetString("parameters")
				mr, err := solver.SolveParameters(cmd.Context(), in.Scenario, in.Dataset, in.Band, splitList(params), goal)
				if err != nil {
					return err
				}
				if format == "json" {
					text, err := jsonFormatter.Format(mr)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), text)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), table.FormatMulti(mr))
				return nil
			}

			req := breakeven.Request{
				BaseScenario: in.Scenario,
				Dataset:      in.Dataset,
				Band:         in.Band,
				Goal:         goal,
			}
			req.Parameter, _ = f.GetString("parameter")
			req.MaxIterations, _ = f.GetInt("max-iterations")
			req.Constraints.Min = optionalDecimalFlag(cmd, "min")
			req.Constraints.Max = optionalDecimalFlag(cmd, "max")
			req.Constraints.TargetNet = optionalDecimalFlag(cmd, "target")

			result, err := solver.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if format == "json" {
				text, err := jsonFormatter.Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Format(result))
			return nil
		},
	}
	addScenarioFlags(cmd)
	f := cmd.Flags()
	f.String("parameter", "surcharge_rate", "Parameter to solve for")
	f.String("goal", "tipping_point", "Goal: tipping_point, target_net, maximize_net")
	f.Float64("min", 0, "Search range start (default from the parameter's preset range)")
	f.Float64("max", 0, "Search range end (default from the parameter's preset range)")
	f.Float64("target", 0, "Net revenue target in dollars for target_net")
	f.Int("max-iterations", 0, "Maximum bisection steps (default 60)")
	f.Bool("all", false, "Solve several parameters and summarize")
	f.String("parameters", "", "Comma-separated parameters for --all (default: surcharge_rate, migration_elasticity, max_migration_share)")
	f.StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func optionalDecimalFlag(cmd *cobra.Command, name string) *decimal.Decimal {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	d := decimal.NewFromFloat(v)
	return &d
}
