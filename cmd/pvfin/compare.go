package main

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/compare"
	"github.com/rgehrsitz/pvfin/internal/transform"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [base-scenario] [alternative-scenario...]",
	Short: "Compare a base scenario against alternatives",
	Long: `Run a base scenario against alternative scenario files, built-in what-if
templates, or ad-hoc transforms, and report how each moves LCOE, IRR and NPV.

Examples:
  # Two scenario files
  pvfin compare site.yaml site-66kv.yaml

  # Built-in templates
  pvfin compare site.yaml --with tariff_down_10,downside

  # Ad-hoc transforms, applied together as one alternative
  pvfin compare site.yaml --transform scale_capex:percent=-5 --transform set_route:voltage=66

  # Show the templates
  pvfin compare --list-templates`,
	Args: cobra.ArbitraryArgs,
	RunE: runCompare,
}

var (
	compareWith          string
	compareTransforms    []string
	compareFormat        string
	compareListTemplates bool
)

func init() {
	compareCmd.Flags().StringVar(&compareWith, "with", "", "Comma-separated template names")
	compareCmd.Flags().StringArrayVar(&compareTransforms, "transform", nil, "Transform spec name:key=value,... (repeatable)")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "console", "Output format (console, csv, json)")
	compareCmd.Flags().BoolVar(&compareListTemplates, "list-templates", false, "List the built-in templates and exit")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ce := compare.NewCompareEngine(newEngine())
	if compareListTemplates {
		fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(ce.TemplateRegistry))
		return nil
	}
	if len(args) == 0 {
		return eris.New("a base scenario file is required")
	}

	base, err := loadScenario(args[0])
	if err != nil {
		return err
	}

	opts := compare.CompareOptions{Templates: transform.ParseTemplateList(compareWith)}
	for _, path := range args[1:] {
		alt, err := loadScenario(path)
		if err != nil {
			return err
		}
		opts.Scenarios = append(opts.Scenarios, alt)
	}
	registry := transform.NewTransformRegistry()
	for _, spec := range compareTransforms {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return eris.Wrapf(err, "invalid --transform %q", spec)
		}
		opts.Transforms = append(opts.Transforms, t)
	}
	if len(opts.Scenarios)+len(opts.Templates)+len(opts.Transforms) == 0 {
		return eris.New("nothing to compare: give alternative files, --with or --transform")
	}

	compSet, err := ce.Compare(cmd.Context(), base, opts)
	if err != nil {
		return err
	}
	return writeComparison(cmd, compSet)
}

func writeComparison(cmd *cobra.Command, compSet *compare.ComparisonSet) error {
	var text string
	var err error
	switch compareFormat {
	case "console":
		text = (&compare.TableFormatter{}).Format(compSet)
	case "csv":
		text, err = (&compare.CSVFormatter{}).Format(compSet)
	case "json":
		text, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		text += "\n"
	default:
		return eris.Errorf("unsupported format %q for compare", compareFormat)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
