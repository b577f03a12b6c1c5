package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"LCOE",
		"IRR",
		"IRR Status",
		"NPV",
		"Payback (Years)",
		"Pays Back",
		"Total Capex",
		"Grid Cost",
		"LCOE Diff from Base",
		"LCOE % Change",
		"IRR Diff from Base",
		"NPV Diff from Base",
		"Capex Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	irrDiff := ""
	if result.IRRComparable {
		irrDiff = result.IRRDiffFromBase.StringFixed(6)
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		result.LCOE.StringFixed(4),
		result.IRR.StringFixed(6),
		string(result.IRRStatus),
		result.NPV.StringFixed(2),
		result.PaybackPeriod.StringFixed(2),
		strconv.FormatBool(result.PaysBack),
		result.TotalCapex.StringFixed(2),
		result.GridCost.StringFixed(2),
		result.LCOEDiffFromBase.StringFixed(4),
		result.LCOEPctFromBase.StringFixed(2),
		irrDiff,
		result.NPVDiffFromBase.StringFixed(2),
		result.CapexDiffFromBase.StringFixed(2),
	}
}
