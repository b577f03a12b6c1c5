package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/pvfin/internal/domain"
)

// CashFlowHeaders are the column headings of the cash flow export.
var CashFlowHeaders = []string{
	"Year",
	"Generation (MWh)",
	"OPEX (£)",
	"Revenue (£)",
	"Nominal Cash Flow (£)",
	"Discount Factor",
	"Discounted Cost (£)",
	"Discounted Energy (MWh)",
	"Discounted Revenue (£)",
	"Discounted Cash Flow (£)",
	"Cumulative Discounted Cash Flow (£)",
}

// CSVFormatter exports the year table as CSV, preceded by a title row.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.ModelResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	title := result.Name
	if title == "" {
		title = "Project"
	}
	records := [][]string{
		{title + " - Cash Flow Analysis"},
		{},
		CashFlowHeaders,
	}
	for _, y := range result.Years {
		records = append(records, cashFlowRow(y))
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cashFlowRow(y domain.YearRecord) []string {
	return []string{
		strconv.Itoa(y.Year),
		y.Generation.StringFixed(2),
		y.Opex.StringFixed(2),
		y.Revenue.StringFixed(2),
		y.CashFlow.StringFixed(2),
		y.DiscountFactor.StringFixed(4),
		y.DiscountedCost.StringFixed(2),
		y.DiscountedEnergy.StringFixed(2),
		y.DiscountedRevenue.StringFixed(2),
		y.DiscountedCashFlow.StringFixed(2),
		y.CumulativeDiscountedCashFlow.StringFixed(2),
	}
}
