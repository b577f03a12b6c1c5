package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a break-even result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString(output.TitleStyle.Render("BREAK-EVEN ANALYSIS") + "\n")
	sb.WriteString(strings.Repeat("=", 65) + "\n")
	sb.WriteString(fmt.Sprintf("Target:      %s\n", targetLabel(result.Target)))
	sb.WriteString(fmt.Sprintf("Goal:        %s\n", tf.goalLabel(result)))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(result.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN POINT\n")
	sb.WriteString(strings.Repeat("-", 65) + "\n")
	sb.WriteString(fmt.Sprintf("Break-even value: %s\n", formatValue(result.Target, result.Value)))
	sb.WriteString(fmt.Sprintf("Current value:    %s\n", formatValue(result.Target, result.Baseline)))
	sb.WriteString(fmt.Sprintf("Headroom:         %s%s\n", tf.deltaSymbol(result.Headroom), formatValue(result.Target, result.Headroom.Abs())))
	sb.WriteString("\n")

	s := result.Summary
	sb.WriteString("RESULTS AT BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("-", 65) + "\n")
	sb.WriteString(fmt.Sprintf("NPV:  %s\n", output.FormatCurrency(s.TotalDiscountedCashFlow)))
	sb.WriteString(fmt.Sprintf("IRR:  %s\n", output.FormatRate(s.IRR, s.IRRStatus)))
	sb.WriteString(fmt.Sprintf("LCOE: %s/MWh\n", output.FormatCurrency(s.LCOE)))

	return sb.String()
}

func (tf *TableFormatter) goalLabel(result *Result) string {
	if result.Goal == GoalTargetIRR {
		return "IRR of " + output.FormatPercentage(result.TargetIRR)
	}
	return "zero NPV at the model discount rate"
}

func (tf *TableFormatter) formatStatus(converged bool) string {
	if converged {
		return "converged"
	}
	return "not converged"
}

func (tf *TableFormatter) deltaSymbol(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-"
	}
	return "+"
}

func targetLabel(t Target) string {
	switch t {
	case TargetPowerPrice:
		return "power price (£/MWh)"
	case TargetCapexPerMW:
		return "capex per MW"
	case TargetGridCost:
		return "grid connection cost"
	default:
		return string(t)
	}
}

func formatValue(t Target, v decimal.Decimal) string {
	if t == TargetPowerPrice {
		return output.FormatCurrency(v) + "/MWh"
	}
	return output.FormatWholeCurrency(v)
}

// JSONFormatter formats break-even results as JSON
type JSONFormatter struct{}

// Format generates indented JSON for a break-even result
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
