package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/gridcost"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func referenceResult(t *testing.T) *domain.ModelResult {
	t.Helper()
	result, err := calculation.NewCalculationEngine().Run(domain.DefaultModelParameters())
	require.NoError(t, err)
	result.Name = "Reference"
	return result
}

func TestNormalizeFormatName(t *testing.T) {
	cases := map[string]string{
		"":        "console",
		"table":   "console",
		" Text ":  "console",
		"JSON":    "json",
		"csv":     "csv",
		"excel":   "xlsx",
		"xls":     "xlsx",
		"unknown": "unknown",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeFormatName(in), "format %q", in)
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"console", "json", "csv", "xlsx"} {
		f, err := NewFormatter(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	_, err := NewFormatter("pdf")
	assert.Error(t, err)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "£1,234,567.89", FormatCurrency(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-£1,234.50", FormatCurrency(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, "£0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "£3,251,463", FormatWholeCurrency(decimal.RequireFromString("3251462.6")))
}

func TestSetCurrencySymbol(t *testing.T) {
	SetCurrencySymbol("€")
	t.Cleanup(func() { SetCurrencySymbol("£") })

	assert.Equal(t, "€10.00", FormatCurrency(decimal.NewFromInt(10)))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "8.56%", FormatPercentage(decimal.RequireFromString("0.0856491")))
	assert.Equal(t, "-2.50%", FormatPercentage(decimal.RequireFromString("-0.025")))
}

func TestFormatRate(t *testing.T) {
	rate := decimal.RequireFromString("0.1")
	assert.Equal(t, "10.00%", FormatRate(rate, domain.RateConverged))
	assert.Equal(t, "~10.00% (not converged)", FormatRate(rate, domain.RateUnconverged))
	assert.Contains(t, FormatRate(decimal.Zero, domain.RateUndefined), "n/a")
}

func TestFormatPayback(t *testing.T) {
	assert.Equal(t, "7.3 years", FormatPayback(decimal.RequireFromString("7.25"), true))
	assert.Equal(t, "not within project life", FormatPayback(decimal.NewFromInt(16), false))
}

func TestConsoleFormatter(t *testing.T) {
	result := referenceResult(t)

	out, err := ConsoleFormatter{}.Format(result)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "SOLAR PROJECT FINANCIAL MODEL: REFERENCE")
	assert.Contains(t, text, "KEY METRICS")
	assert.Contains(t, text, "£118.09/MWh")
	assert.Contains(t, text, "8.56%")
	assert.Contains(t, text, "not within project life")
	assert.Contains(t, text, "£20,052,511.32")
	assert.Contains(t, text, "STAKEHOLDER VALUE")
	assert.Contains(t, text, "CASH FLOW")

	hidden, err := ConsoleFormatter{HideYears: true}.Format(result)
	require.NoError(t, err)
	assert.NotContains(t, string(hidden), "Cum. Disc. CF")
}

func TestConsoleFormatterIncludesGridBreakdown(t *testing.T) {
	s := &domain.Scenario{Name: "Routed", Parameters: domain.DefaultModelParameters(), UseGridEstimate: true}
	route := domain.DefaultRouteParameters()
	s.Route = &route
	result, err := calculation.NewCalculationEngine().RunScenario(s)
	require.NoError(t, err)

	out, err := ConsoleFormatter{HideYears: true}.Format(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), "GRID CONNECTION COST")
	assert.Contains(t, string(out), "£3,251,463")
}

func TestCSVFormatter(t *testing.T) {
	result := referenceResult(t)

	out, err := CSVFormatter{}.Format(result)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(string(out)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	// title, headers, then years 0..15; the blank separator line is skipped by the reader
	require.Len(t, records, 2+16)
	assert.Equal(t, []string{"Reference - Cash Flow Analysis"}, records[0])
	assert.Equal(t, CashFlowHeaders, records[1])

	year0 := records[2]
	assert.Equal(t, "0", year0[0])
	assert.Equal(t, "0.00", year0[1])
	assert.Equal(t, "1.0000", year0[5])
	assert.Equal(t, "-20052511.32", year0[4])

	assert.Equal(t, "15", records[len(records)-1][0])
}

func TestCSVFormatterUntitled(t *testing.T) {
	result := referenceResult(t)
	result.Name = ""

	out, err := CSVFormatter{}.Format(result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Project - Cash Flow Analysis\n"))
}

func TestJSONFormatter(t *testing.T) {
	result := referenceResult(t)

	out, err := JSONFormatter{}.Format(result)
	require.NoError(t, err)

	var decoded domain.ModelResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Reference", decoded.Name)
	assert.Len(t, decoded.Years, 16)
	assert.Equal(t, domain.RateConverged, decoded.Summary.IRRStatus)
}

func TestXLSXFormatter(t *testing.T) {
	result := referenceResult(t)

	out, err := XLSXFormatter{}.Format(result)
	require.NoError(t, err)

	wb, err := xlsx.OpenBinary(out)
	require.NoError(t, err)

	cashFlow, ok := wb.Sheet["Cash Flow"]
	require.True(t, ok)
	require.Len(t, cashFlow.Rows, 1+16)
	assert.Equal(t, "Year", cashFlow.Rows[0].Cells[0].String())
	assert.Len(t, cashFlow.Rows[0].Cells, len(CashFlowHeaders))
	assert.Equal(t, "0", cashFlow.Rows[1].Cells[0].Value)

	summary, ok := wb.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "Project", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "Reference", summary.Rows[0].Cells[1].String())
	assert.Equal(t, "IRR", summary.Rows[3].Cells[0].String())
	assert.Equal(t, "8.56%", summary.Rows[3].Cells[1].String())
}

func TestWriteFormatted(t *testing.T) {
	result := referenceResult(t)
	path := filepath.Join(t.TempDir(), "result.json")

	require.NoError(t, WriteFormatted(JSONFormatter{}, result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Reference"`)

	err = WriteFormatted(JSONFormatter{}, result, filepath.Join(t.TempDir(), "missing", "x.json"))
	assert.Error(t, err)
}

func TestFormatGridCost(t *testing.T) {
	b, err := gridcost.Estimate(domain.DefaultRouteParameters())
	require.NoError(t, err)

	text, err := FormatGridCost(b, "console")
	require.NoError(t, err)
	assert.Contains(t, text, "Cable")
	assert.Contains(t, text, "Road laying")
	assert.Contains(t, text, "£3,251,463")

	js, err := FormatGridCost(b, "json")
	require.NoError(t, err)
	var decoded domain.CostBreakdown
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.True(t, decoded.Total.Min.Equal(b.Total.Min))

	_, err = FormatGridCost(b, "csv")
	assert.Error(t, err)
}

func TestFormatGridCostShowsFallbacks(t *testing.T) {
	b := &domain.CostBreakdown{Fallbacks: []string{"cable: no rate for 20 kV, used 33 kV"}}

	text, err := FormatGridCost(b, "")
	require.NoError(t, err)
	assert.Contains(t, text, "note: cable: no rate for 20 kV")
}

func TestFormatSources(t *testing.T) {
	text, err := FormatSources(gridcost.Sources(), "console")
	require.NoError(t, err)
	assert.Contains(t, text, "COST DATA SOURCES")
	assert.Contains(t, text, "[cable-ssen]")

	js, err := FormatSources(gridcost.Sources(), "json")
	require.NoError(t, err)
	var decoded []gridcost.Source
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Len(t, decoded, len(gridcost.Sources()))

	_, err = FormatSources(nil, "xlsx")
	assert.Error(t, err)
}
