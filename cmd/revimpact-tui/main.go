package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/revimpact/internal/config"
	"github.com/rgehrsitz/revimpact/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revimpact-tui [run-file]",
		Short: "Interactive explorer for New York surcharge scenarios",
		Long: `Adjust the surcharge, threshold, flat-rate change, NYC surcharge and time horizon
with the arrow keys and watch mechanical gain, migration loss and net revenue update.

Starts from the default scenario, or from a scenario in a run file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd, args)
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("scenario", "", "Scenario name in the run file (default: first scenario)")
	cmd.Flags().String("dataset", "", "Starting dataset vintage (default from settings)")
	return cmd
}

// buildOptions resolves the starting point. The engine keeps its no-op logger
// since the terminal belongs to the explorer.
func buildOptions(cmd *cobra.Command, args []string) (tui.Options, error) {
	settings, err := config.Load()
	if err != nil {
		return tui.Options{}, err
	}
	opts := tui.Options{
		Dataset: settings.Dataset,
		Band:    settings.MiddleIncome.Band(),
	}

	if len(args) > 0 {
		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return opts, err
		}
		name, _ := cmd.Flags().GetString("scenario")
		s, err := config.FindScenario(cfg, name)
		if err != nil {
			return opts, err
		}
		opts.Scenario = s.DeepCopy()
		if cfg.Dataset != "" {
			opts.Dataset = cfg.Dataset
		}
		if cfg.MiddleIncome != nil {
			opts.Band = *cfg.MiddleIncome
		}
	}

	if name, _ := cmd.Flags().GetString("dataset"); name != "" {
		opts.Dataset = name
	}
	return opts, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
