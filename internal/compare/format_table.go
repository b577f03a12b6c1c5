package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(output.TitleStyle.Render("SOLAR SCENARIO COMPARISON") + "\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "LCOE (£/MWh)",
		numWidth, "IRR",
		numWidth, "NPV",
		numWidth, "Payback"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  LCOE:   %s£%s/MWh (%s%%)\n",
				tf.deltaSymbol(alt.LCOEDiffFromBase),
				alt.LCOEDiffFromBase.Abs().StringFixed(2),
				alt.LCOEPctFromBase.StringFixed(1)))

			if alt.IRRComparable {
				sb.WriteString(fmt.Sprintf("  IRR:    %s%s points\n",
					tf.deltaSymbol(alt.IRRDiffFromBase),
					alt.IRRDiffFromBase.Abs().Mul(decimal.NewFromInt(100)).StringFixed(2)))
			} else {
				sb.WriteString("  IRR:    not comparable\n")
			}

			sb.WriteString(fmt.Sprintf("  NPV:    %s£%s\n",
				tf.deltaSymbol(alt.NPVDiffFromBase),
				tf.formatDecimal(alt.NPVDiffFromBase.Abs())))

			if !alt.CapexDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Capex:  %s£%s\n",
					tf.deltaSymbol(alt.CapexDiffFromBase),
					tf.formatDecimal(alt.CapexDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	payback := "never"
	if result.PaysBack {
		payback = result.PaybackPeriod.StringFixed(1) + " yrs"
	}

	var irr string
	switch result.IRRStatus {
	case domain.RateConverged:
		irr = output.FormatPercentage(result.IRR)
	case domain.RateUnconverged:
		irr = "~" + output.FormatPercentage(result.IRR)
	default:
		irr = "n/a"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.LCOE.StringFixed(2),
		numWidth, irr,
		numWidth, "£"+tf.formatDecimal(result.NPV),
		numWidth, payback)
}

// formatDecimal abbreviates large amounts to thousands or millions
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns the sign shown before an absolute delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line LCOE summary for each alternative
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.LCOEDiffFromBase.IsZero() {
			change = fmt.Sprintf("%s£%s/MWh", tf.deltaSymbol(alt.LCOEDiffFromBase), alt.LCOEDiffFromBase.Abs().StringFixed(2))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
