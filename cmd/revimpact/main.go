package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/revimpact/internal/calculation"
	"github.com/rgehrsitz/revimpact/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what PersistentPreRunE resolves for every subcommand
type app struct {
	settings *config.Settings
	engine   *calculation.Engine
}

// persistentBindings maps viper keys to root persistent flags
var persistentBindings = map[string]string{
	"log.level":  "log-level",
	"log.format": "log-format",
	"dataset":    "dataset",
}

func newRootCmd() *cobra.Command {
	a := &app{engine: calculation.NewEngine()}

	root := &cobra.Command{
		Use:   "revimpact",
		Short: "New York tax policy revenue calculator",
		Long: `Estimates the revenue effect of New York State and City income tax changes on
high earners: mechanical gain from the new rates, revenue lost to out-migration
under a behavioral model, and the middle-income rate increase that would close
any shortfall.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			for key, name := range persistentBindings {
				if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
					return eris.Wrapf(err, "bind flag %s", name)
				}
			}

			settings, err := config.LoadFrom(v)
			if err != nil {
				return eris.Wrap(err, "load config")
			}
			a.settings = settings

			if err := config.InitLogger(settings.Log); err != nil {
				return eris.Wrap(err, "init logger")
			}
			a.engine.SetLogger(zap.S())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default info)")
	root.PersistentFlags().String("log-format", "", "Log format: console or json (default console)")
	root.PersistentFlags().String("dataset", "", "Dataset vintage, e.g. ty2021 or ty2022 (default ty2022)")

	root.AddCommand(
		newRunCmd(a),
		newExportCmd(a),
		newPresetsCmd(a),
		newSensitivityCmd(a),
		newCompareCmd(a),
		newTippingPointCmd(a),
		newValidateCmd(),
		newDatasetsCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "revimpact %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// writeOutput sends rendered output to the named file, or to the command's stdout
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
