package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/output"
	"github.com/rgehrsitz/revimpact/internal/transform"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [run-file]",
		Short: "Run one scenario and print its report",
		Long: `Run one scenario against a dataset and print the revenue report.

The scenario comes from a YAML run file, or from flags when no file is given.
Flags that are set explicitly override the run file.

Examples:
  revimpact run --surcharge-rate 0.02 --threshold 1000000
  revimpact run scenarios.yaml --scenario millionaires --format json
  revimpact run --preset aggressive --horizon 3 --format xlsx --out report.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list-transforms"); list {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(transform.NewTransformRegistry().List(), "\n"))
				return nil
			}

			in, err := a.loadInput(cmd, args)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			if format == "" {
				format = a.settings.Output.Format
			}
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return eris.Errorf("unknown format %q (available: %s)", format,
					strings.Join(append(output.AvailableFormats(), output.AvailableFormatAliases()...), ", "))
			}
			outPath, _ := cmd.Flags().GetString("out")
			if formatter.Name() == "xlsx" && outPath == "" {
				return eris.New("xlsx output needs --out")
			}

			out, err := a.engine.RunScenario(cmd.Context(), in.Dataset, in.Band, in.Scenario)
			if err != nil {
				return err
			}
			report, err := output.NewReport(in.Scenario, in.Band, out)
			if err != nil {
				return err
			}
			data, err := formatter.Format(report)
			if err != nil {
				return eris.Wrapf(err, "format %s report", formatter.Name())
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().StringP("format", "f", "", "Output format: console, csv, json, xlsx (default from settings)")
	cmd.Flags().StringP("out", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("list-transforms", false, "List the transforms accepted by --transform and exit")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run-file]",
		Short: "Write a scenario report to files in several formats",
		Long: `Run one scenario and write timestamped report files, one per format.

Example:
  revimpact export scenarios.yaml --formats xlsx,json --dir reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(cmd, args)
			if err != nil {
				return err
			}

			formatsFlag, _ := cmd.Flags().GetString("formats")
			formats := splitList(formatsFlag)
			if len(formats) == 0 {
				return eris.New("no export formats given")
			}
			formatters := make([]output.Formatter, 0, len(formats))
			for _, name := range formats {
				f := output.GetFormatterByName(name)
				if f == nil {
					return eris.Errorf("unknown format %q (available: %s)", name, strings.Join(output.AvailableFormats(), ", "))
				}
				formatters = append(formatters, f)
			}

			dir, _ := cmd.Flags().GetString("dir")
			if err := os.MkdirAll(dir, 0755); err != nil {
				return eris.Wrapf(err, "export: create %s", dir)
			}

			out, err := a.engine.RunScenario(cmd.Context(), in.Dataset, in.Band, in.Scenario)
			if err != nil {
				return err
			}
			report, err := output.NewReport(in.Scenario, in.Band, out)
			if err != nil {
				return err
			}
			for _, f := range formatters {
				path, err := output.WriteFormattedTo(dir, f, report, extensionFor(f.Name()))
				if err != nil {
					return eris.Wrapf(err, "export: write %s", f.Name())
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().String("formats", "xlsx,json,csv", "Comma-separated formats to write")
	cmd.Flags().String("dir", ".", "Directory for the report files")
	return cmd
}

// splitList splits a comma-separated flag value, dropping blanks
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func extensionFor(format string) string {
	if format == "console" {
		return "txt"
	}
	return format
}
