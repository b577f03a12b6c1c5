package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders a model result as a human-readable report
type ConsoleFormatter struct {
	// HideYears drops the year-by-year table.
	HideYears bool
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ModelResult) ([]byte, error) {
	var buf bytes.Buffer
	s := result.Summary
	p := result.Parameters

	name := result.Name
	if name == "" {
		name = "Solar Project"
	}
	fmt.Fprintln(&buf, TitleStyle.Render("SOLAR PROJECT FINANCIAL MODEL: "+strings.ToUpper(name)))
	fmt.Fprintln(&buf, strings.Repeat("=", 65))
	fmt.Fprintf(&buf, "Capacity: %s MW over %d years, discount rate %s\n",
		p.CapacityMW.String(), p.ProjectLife, FormatPercentage(p.DiscountRate))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, TitleStyle.Render("KEY METRICS"))
	metricLine(&buf, "LCOE (discounted)", FormatCurrency(s.LCOE)+"/MWh")
	metricLine(&buf, "LCOE (undiscounted)", FormatCurrency(s.UndiscountedLCOE)+"/MWh")
	metricLine(&buf, "IRR", FormatRate(s.IRR, s.IRRStatus))
	metricLine(&buf, "Discounted payback", FormatPayback(s.PaybackPeriod, s.PaysBack))
	metricLine(&buf, "NPV", signedStyle(s.TotalDiscountedCashFlow.IsNegative()).Render(FormatCurrency(s.TotalDiscountedCashFlow)))
	metricLine(&buf, "Total capex", FormatCurrency(s.TotalCapex))
	metricLine(&buf, "Capex per MW", FormatCurrency(s.CapexPerMW))
	metricLine(&buf, "Grid connection cost", FormatCurrency(result.GridCost))
	metricLine(&buf, "Total generation", FormatNumber(s.TotalGeneration, 0)+" MWh")
	metricLine(&buf, "Total revenue", FormatCurrency(s.TotalRevenue))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, TitleStyle.Render("STAKEHOLDER VALUE"))
	metricLine(&buf, "Offtaker savings per year", FormatCurrency(s.YearlySavings))
	metricLine(&buf, "Offtaker savings, lifetime", FormatCurrency(s.TotalSavings))
	if p.LandOptionEnabled {
		metricLine(&buf, "Land option, year 1", FormatCurrency(s.YearlyRentalIncome))
		metricLine(&buf, "Land option, lifetime", FormatCurrency(s.TotalLandOptionIncome))
		if p.LandValue.IsPositive() {
			metricLine(&buf, "Land option yield", FormatPercentage(s.LandOptionYield))
		}
	}
	if p.DevelopmentPremiumEnabled {
		metricLine(&buf, "Developer premium", FormatCurrency(s.TotalDeveloperPremium))
	}
	fmt.Fprintln(&buf)

	if result.GridCosts != nil {
		writeGridCostBreakdown(&buf, result.GridCosts)
		fmt.Fprintln(&buf)
	}

	if !c.HideYears {
		writeYearTable(&buf, result.Years)
	}

	return buf.Bytes(), nil
}

func metricLine(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %-30s %s\n", label, value)
}

// FormatRate renders a solved rate with its convergence status
func FormatRate(rate decimal.Decimal, status domain.RateStatus) string {
	switch status {
	case domain.RateConverged:
		return FormatPercentage(rate)
	case domain.RateUnconverged:
		return "~" + FormatPercentage(rate) + " (not converged)"
	default:
		return "n/a (cash flows never change sign)"
	}
}

// FormatPayback renders a payback period or notes that none occurs
func FormatPayback(years decimal.Decimal, paysBack bool) string {
	if !paysBack {
		return "not within project life"
	}
	return years.StringFixed(1) + " years"
}

func writeYearTable(buf *bytes.Buffer, years []domain.YearRecord) {
	fmt.Fprintln(buf, TitleStyle.Render("CASH FLOW"))
	fmt.Fprintf(buf, "%-5s %12s %14s %14s %15s %8s %15s %17s\n",
		"Year", "Gen (MWh)", "OPEX", "Revenue", "Cash Flow", "DF", "Disc. CF", "Cum. Disc. CF")
	fmt.Fprintln(buf, strings.Repeat("-", 106))
	for _, y := range years {
		fmt.Fprintf(buf, "%-5d %12s %14s %14s %15s %8s %15s %17s\n",
			y.Year,
			FormatNumber(y.Generation, 0),
			FormatWholeCurrency(y.Opex),
			FormatWholeCurrency(y.Revenue),
			FormatWholeCurrency(y.CashFlow),
			y.DiscountFactor.StringFixed(4),
			FormatWholeCurrency(y.DiscountedCashFlow),
			FormatWholeCurrency(y.CumulativeDiscountedCashFlow))
	}
}
