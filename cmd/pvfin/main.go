package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/config"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/gridcost"
	"github.com/rgehrsitz/pvfin/internal/output"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// zapCLILogger implements calculation.Logger on the global zap logger
type zapCLILogger struct {
	s *zap.SugaredLogger
}

func (l zapCLILogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l zapCLILogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l zapCLILogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l zapCLILogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// newCLILogger skips the wrapper frame so entries report the engine's caller.
func newCLILogger(base *zap.Logger) zapCLILogger {
	return zapCLILogger{s: base.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	settings   *config.Settings
	configPath string
	logLevel   string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "pvfin",
	Short: "Solar asset financial model CLI",
	Long:  "Financial simulation of grid-connected solar assets: cash flow projection, LCOE, IRR, payback, grid connection costing and sensitivity sweeps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings(configPath)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if logLevel != "" {
			s.Log.Level = logLevel
		}
		if debugMode {
			s.Log.Level = "debug"
		}
		if err := config.InitLogger(s.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		output.SetCurrencySymbol(s.Output.CurrencySymbol)
		settings = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func newEngine() *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(newCLILogger(zap.L()))
	return engine
}

func loadScenario(path string) (*domain.Scenario, error) {
	return config.NewInputParser().LoadFromFile(path)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [scenario-file]",
	Short: "Run the financial model for a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}

		result, err := newEngine().RunScenario(scenario)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")
		hideYears, _ := cmd.Flags().GetBool("summary-only")

		f, err := output.NewFormatter(format)
		if err != nil {
			return err
		}
		if c, ok := f.(output.ConsoleFormatter); ok {
			c.HideYears = hideYears
			f = c
		}

		if outputFile != "" {
			if err := output.WriteFormatted(f, result, outputFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", f.Name(), outputFile)
			return nil
		}
		if f.Name() == "xlsx" {
			return eris.New("xlsx output requires --output")
		}

		data, err := f.Format(result)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file]",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scenario %q is valid\n", scenario.Name)
		return nil
	},
}

var gridCostCmd = &cobra.Command{
	Use:   "grid-cost [scenario-file]",
	Short: "Estimate the grid connection cost of a scenario's route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		if scenario.Route == nil {
			return eris.Errorf("scenario %q has no route section", scenario.Name)
		}

		b, err := newEngine().EstimateGridCost(*scenario.Route)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		text, err := output.FormatGridCost(b, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the data sources behind the cost tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		text, err := output.FormatSources(gridcost.Sources(), format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init [scenario-file]",
	Short: "Write the reference scenario to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err == nil {
			return eris.Errorf("%s already exists", args[0])
		}
		data, err := config.NewInputParser().Marshal(config.DefaultScenario())
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return eris.Wrapf(err, "write %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote reference scenario to %s\n", args[0])
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pvfin %s (commit %s, built %s)\n", version, commit, date)
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

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default pvfin.yaml in . or $HOME/.config/pvfin)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, xlsx)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	calculateCmd.Flags().Bool("summary-only", false, "Omit the year-by-year table from console output")

	gridCostCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	sourcesCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(gridCostCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
