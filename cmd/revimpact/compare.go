package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/compare"
	"github.com/rgehrsitz/revimpact/internal/transform"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [run-file]",
		Short: "Compare a base scenario against templates or other scenarios",
		Long: `Compare a base scenario against policy or behavioral templates, or against other
scenarios in the same run file.

Examples:
  revimpact compare --list-templates
  revimpact compare --with millionaires_tax_nyc,aggressive_response
  revimpact compare scenarios.yaml --scenario base --against alt_one,alt_two --format csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := transform.CreateBuiltInTemplates()
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprintln(cmd.OutOrStdout(), transform.GetTemplateHelp(registry))
				return nil
			}

			in, err := a.loadInput(cmd, args)
			if err != nil {
				return err
			}

			engine := compare.NewCompareEngine(a.engine)
			engine.TemplateRegistry = registry

			var compSet *compare.ComparisonSet
			against, _ := cmd.Flags().GetString("against")
			if against != "" {
				if in.Config == nil {
					return eris.New("--against needs a run file")
				}
				compSet, err = engine.CompareScenarios(cmd.Context(), in.Dataset, in.Band, in.Config, in.Scenario.Name, transform.ParseTemplateList(against))
			} else {
				with, _ := cmd.Flags().GetString("with")
				templates := transform.ParseTemplateList(with)
				if len(templates) == 0 {
					templates = registry.List()
				}
				compSet, err = engine.Compare(cmd.Context(), in.Dataset, in.Band, in.Scenario, templates)
			}
			if err != nil {
				return err
			}
			if len(args) > 0 {
				compSet.ConfigPath = args[0]
			}

			format, _ := cmd.Flags().GetString("format")
			var text string
			switch format {
			case "table", "console":
				text = (&compare.TableFormatter{}).Format(compSet)
			case "compact":
				text = (&compare.TableFormatter{}).FormatCompact(compSet)
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(compSet)
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
			default:
				return eris.Errorf("unknown format %q (available: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().String("with", "", "Comma-separated templates to compare (default: all)")
	cmd.Flags().String("against", "", "Comma-separated scenarios from the run file to compare instead of templates")
	cmd.Flags().Bool("list-templates", false, "List the available templates and exit")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, compact, csv, json")
	return cmd
}
