package main

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/breakeven"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var breakevenCmd = &cobra.Command{
	Use:   "breakeven [scenario-file]",
	Short: "Find the level of an input at which a scenario breaks even",
	Long: `Bisect one model input until the scenario reaches zero NPV at its discount
rate, or a chosen IRR.

Targets: power_price, capex_per_mw, grid_cost

Examples:
  # Tariff needed for zero NPV
  pvfin breakeven scenario.yaml

  # Largest grid connection cost that still returns 6%
  pvfin breakeven scenario.yaml --target grid_cost --irr 6`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakEven,
}

var (
	breakevenTarget string
	breakevenIRR    float64
	breakevenFormat string
)

func init() {
	breakevenCmd.Flags().StringVarP(&breakevenTarget, "target", "t", string(breakeven.TargetPowerPrice), "Input to solve for (power_price, capex_per_mw, grid_cost)")
	breakevenCmd.Flags().Float64Var(&breakevenIRR, "irr", 0, "Target IRR in percent; zero NPV when unset")
	breakevenCmd.Flags().StringVarP(&breakevenFormat, "format", "f", "console", "Output format (console, json)")

	rootCmd.AddCommand(breakevenCmd)
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	if breakevenFormat != "console" && breakevenFormat != "json" {
		return eris.Errorf("unsupported format %q for breakeven", breakevenFormat)
	}

	scenario, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	engine := newEngine()
	baseline, _, err := engine.ResolveScenario(scenario)
	if err != nil {
		return err
	}

	req := breakeven.Request{
		Baseline: baseline,
		Target:   breakeven.Target(breakevenTarget),
		Goal:     breakeven.GoalZeroNPV,
	}
	if cmd.Flags().Changed("irr") {
		req.Goal = breakeven.GoalTargetIRR
		req.TargetIRR = decimal.NewFromFloat(breakevenIRR).Div(decimal.NewFromInt(100))
	}

	result, err := breakeven.NewDefaultSolver(engine).Solve(cmd.Context(), req)
	if err != nil {
		return err
	}

	if breakevenFormat == "json" {
		text, err := (&breakeven.JSONFormatter{}).Format(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).Format(result))
	return nil
}
