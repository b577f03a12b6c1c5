package domain

import (
	"github.com/shopspring/decimal"
)

// YearRecord is one simulated year. Year 0 holds the capital outlay,
// years 1..N hold operations.
type YearRecord struct {
	Year int `json:"year"`

	Capex      decimal.Decimal `json:"capex"`
	Opex       decimal.Decimal `json:"opex"`
	Generation decimal.Decimal `json:"generation"` // MWh
	Revenue    decimal.Decimal `json:"revenue"`

	CashFlow           decimal.Decimal `json:"cashFlow"`
	CumulativeCashFlow decimal.Decimal `json:"cumulativeCashFlow"`

	DiscountFactor               decimal.Decimal `json:"discountFactor"`
	DiscountedCost               decimal.Decimal `json:"discountedCost"`
	DiscountedEnergy             decimal.Decimal `json:"discountedEnergy"`
	DiscountedRevenue            decimal.Decimal `json:"discountedRevenue"`
	DiscountedCashFlow           decimal.Decimal `json:"discountedCashFlow"`
	CumulativeDiscountedCashFlow decimal.Decimal `json:"cumulativeDiscountedCashFlow"`

	// Stakeholder sub-ledgers
	OfftakerSavings decimal.Decimal `json:"offtakerSavings"`
	LandIncome      decimal.Decimal `json:"landIncome"`
}

// RateStatus describes how a rate-of-return solve ended.
type RateStatus string

const (
	RateConverged   RateStatus = "converged"
	RateUnconverged RateStatus = "unconverged"
	RateUndefined   RateStatus = "undefined"
)

// SummaryMetrics is derived once per run from the year records.
type SummaryMetrics struct {
	TotalCapex      decimal.Decimal `json:"totalCapex"`
	TotalOpex       decimal.Decimal `json:"totalOpex"`
	TotalGeneration decimal.Decimal `json:"totalGeneration"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalCashFlow   decimal.Decimal `json:"totalCashFlow"`

	TotalDiscountedCost     decimal.Decimal `json:"totalDiscountedCost"`
	TotalDiscountedEnergy   decimal.Decimal `json:"totalDiscountedEnergy"`
	TotalDiscountedRevenue  decimal.Decimal `json:"totalDiscountedRevenue"`
	TotalDiscountedCashFlow decimal.Decimal `json:"totalDiscountedCashFlow"` // NPV at the model discount rate

	LCOE             decimal.Decimal `json:"lcoe"`
	UndiscountedLCOE decimal.Decimal `json:"undiscountedLcoe"`

	IRR       decimal.Decimal `json:"irr"`
	IRRStatus RateStatus      `json:"irrStatus"`

	// PaybackPeriod is ProjectLife+1 when PaysBack is false.
	PaybackPeriod decimal.Decimal `json:"paybackPeriod"`
	PaysBack      bool            `json:"paysBack"`

	CapexPerMW decimal.Decimal `json:"capexPerMW"`

	YearlySavings         decimal.Decimal `json:"yearlySavings"`
	TotalSavings          decimal.Decimal `json:"totalSavings"`
	YearlyRentalIncome    decimal.Decimal `json:"yearlyRentalIncome"`
	TotalLandOptionIncome decimal.Decimal `json:"totalLandOptionIncome"`
	LandOptionYield       decimal.Decimal `json:"landOptionYield"` // fraction of land value
	TotalDeveloperPremium decimal.Decimal `json:"totalDeveloperPremium"`
}

// ModelResult bundles everything a full run produces.
type ModelResult struct {
	Name       string          `json:"name,omitempty"`
	Parameters ModelParameters `json:"parameters"`
	GridCost   decimal.Decimal `json:"gridCost"`
	GridCosts  *CostBreakdown  `json:"gridCosts,omitempty"`
	Years      []YearRecord    `json:"years"`
	Summary    SummaryMetrics  `json:"summary"`
}
