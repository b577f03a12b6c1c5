package compare

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/output"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds one scenario's headline metrics and, for
// alternatives, the change from the base scenario.
type ComparisonResult struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description,omitempty"`

	LCOE          decimal.Decimal   `json:"lcoe"`
	IRR           decimal.Decimal   `json:"irr"`
	IRRStatus     domain.RateStatus `json:"irrStatus"`
	NPV           decimal.Decimal   `json:"npv"`
	PaybackPeriod decimal.Decimal   `json:"paybackPeriod"`
	PaysBack      bool              `json:"paysBack"`
	TotalCapex    decimal.Decimal   `json:"totalCapex"`
	GridCost      decimal.Decimal   `json:"gridCost"`

	LCOEDiffFromBase  decimal.Decimal `json:"lcoeDiffFromBase"`
	LCOEPctFromBase   decimal.Decimal `json:"lcoePctFromBase"`
	NPVDiffFromBase   decimal.Decimal `json:"npvDiffFromBase"`
	CapexDiffFromBase decimal.Decimal `json:"capexDiffFromBase"`

	// IRRDiffFromBase is only set when both IRRs converged.
	IRRDiffFromBase decimal.Decimal `json:"irrDiffFromBase"`
	IRRComparable   bool            `json:"irrComparable"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// MetricsCalculator extracts comparison metrics from model results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics reads the headline metrics of a model run
func (mc *MetricsCalculator) CalculateMetrics(result *domain.ModelResult) ComparisonResult {
	s := result.Summary
	return ComparisonResult{
		ScenarioName:  result.Name,
		LCOE:          s.LCOE,
		IRR:           s.IRR,
		IRRStatus:     s.IRRStatus,
		NPV:           s.TotalDiscountedCashFlow,
		PaybackPeriod: s.PaybackPeriod,
		PaysBack:      s.PaysBack,
		TotalCapex:    s.TotalCapex,
		GridCost:      result.GridCost,
	}
}

// CalculateComparison computes the change of scenario from base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.LCOEDiffFromBase = scenario.LCOE.Sub(base.LCOE)
	if !base.LCOE.IsZero() {
		scenario.LCOEPctFromBase = scenario.LCOEDiffFromBase.
			Div(base.LCOE).
			Mul(decimal.NewFromInt(100))
	}

	scenario.NPVDiffFromBase = scenario.NPV.Sub(base.NPV)
	scenario.CapexDiffFromBase = scenario.TotalCapex.Sub(base.TotalCapex)

	scenario.IRRComparable = scenario.IRRStatus == domain.RateConverged && base.IRRStatus == domain.RateConverged
	if scenario.IRRComparable {
		scenario.IRRDiffFromBase = scenario.IRR.Sub(base.IRR)
	}

	return scenario
}

// GenerateRecommendations names the alternatives that beat the base on
// LCOE, IRR and NPV.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}
	base := compSet.BaseResult

	bestLCOE := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.LCOE.LessThan(bestLCOE.LCOE) {
			bestLCOE = alt
		}
	}
	if bestLCOE != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest LCOE: %s at %s/MWh, %s/MWh below base",
				bestLCOE.ScenarioName, output.FormatCurrency(bestLCOE.LCOE), output.FormatCurrency(base.LCOE.Sub(bestLCOE.LCOE))))
	}

	var bestIRR *ComparisonResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if !alt.IRRComparable || !alt.IRRDiffFromBase.IsPositive() {
			continue
		}
		if bestIRR == nil || alt.IRR.GreaterThan(bestIRR.IRR) {
			bestIRR = alt
		}
	}
	if bestIRR != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Highest IRR: %s at %s, up %s points on base",
				bestIRR.ScenarioName, output.FormatPercentage(bestIRR.IRR), bestIRR.IRRDiffFromBase.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}

	bestNPV := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NPV.GreaterThan(bestNPV.NPV) {
			bestNPV = alt
		}
	}
	if bestNPV != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Highest NPV: %s adds %s over base",
				bestNPV.ScenarioName, output.FormatWholeCurrency(bestNPV.NPV.Sub(base.NPV))))
	}

	return recommendations
}
