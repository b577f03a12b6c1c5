package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/output"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [scenario-file]",
	Short: "Sweep LCOE and IRR over grid voltage and distance",
	Long: `Re-run a scenario over a voltage x distance grid, pricing each cell's grid
connection with the coarse per-km estimate.

Examples:
  # Default 6 voltages x 10 distances
  pvfin sensitivity scenario.yaml

  # Custom axes as CSV
  pvfin sensitivity scenario.yaml --voltages 11,33,66 --distances 1,5,10,20 --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivityAnalysis,
}

var (
	sensitivityVoltages  []string
	sensitivityDistances []string
	sensitivityFormat    string
	sensitivityWorkers   int
)

func init() {
	sensitivityCmd.Flags().StringSliceVar(&sensitivityVoltages, "voltages", nil, "Cable voltages in kV (default 6,10,20,33,66,132)")
	sensitivityCmd.Flags().StringSliceVar(&sensitivityDistances, "distances", nil, "Connection distances in km (default 1..10)")
	sensitivityCmd.Flags().StringVarP(&sensitivityFormat, "format", "f", "console", "Output format (console, csv, json)")
	sensitivityCmd.Flags().IntVar(&sensitivityWorkers, "workers", 0, "Concurrent cells (default from settings)")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) error {
	scenario, err := loadScenario(args[0])
	if err != nil {
		return err
	}

	voltages, err := parseAxis("voltages", sensitivityVoltages, calculation.DefaultSweepVoltages())
	if err != nil {
		return err
	}
	distances, err := parseAxis("distances", sensitivityDistances, calculation.DefaultSweepDistances())
	if err != nil {
		return err
	}

	formatter, err := output.NewSensitivityFormatter(sensitivityFormat)
	if err != nil {
		return err
	}

	engine := newEngine()
	baseline, _, err := engine.ResolveScenario(scenario)
	if err != nil {
		return err
	}

	analyzer := calculation.NewSensitivityAnalyzer(engine)
	switch {
	case sensitivityWorkers > 0:
		analyzer.Workers = sensitivityWorkers
	case settings != nil && settings.Sensitivity.Workers > 0:
		analyzer.Workers = settings.Sensitivity.Workers
	}

	matrix, err := analyzer.SweepGrid(cmd.Context(), baseline, voltages, distances)
	if err != nil {
		return err
	}

	text, err := formatter.FormatSensitivityAnalysis(matrix)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// parseAxis converts flag values to positive decimals, or returns def when none were given.
func parseAxis(name string, values []string, def []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(values) == 0 {
		return def, nil
	}
	axis := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, eris.Wrapf(err, "invalid %s value %q", name, v)
		}
		if !d.IsPositive() {
			return nil, eris.Errorf("%s must be positive, got %s", name, v)
		}
		axis = append(axis, d)
	}
	return axis, nil
}
