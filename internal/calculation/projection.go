package calculation

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// divPrecision is the fractional digits kept on discounting divisions.
const divPrecision = 28

// DeveloperPremium is the one-off premium folded into capex.
func DeveloperPremium(p domain.ModelParameters) decimal.Decimal {
	if !p.DevelopmentPremiumEnabled {
		return decimal.Zero
	}
	return p.DevelopmentPremiumPerMW.Mul(p.CapacityMW).Mul(one.Sub(p.DevelopmentPremiumDiscount))
}

// LandOptionYear1 is the unescalated annual land option payment.
func LandOptionYear1(p domain.ModelParameters) decimal.Decimal {
	if !p.LandOptionEnabled {
		return decimal.Zero
	}
	return p.LandOptionCostPerMW.Mul(p.CapacityMW).Mul(one.Sub(p.LandOptionDiscount))
}

// SavingsPerMWh is what the offtaker saves on each PPA MWh against
// its counterfactual supply cost. Never negative.
func SavingsPerMWh(p domain.ModelParameters) decimal.Decimal {
	return decimal.Max(decimal.Zero, p.OffsetableEnergyCost.Sub(p.PowerPrice))
}

// ResolveGridCost picks the manual override when enabled, otherwise
// the parameters' grid connection cost.
func ResolveGridCost(p domain.ModelParameters) decimal.Decimal {
	if p.GridCostOverrideEnabled {
		return p.GridCostOverride
	}
	return p.GridConnectionCost
}

// TotalCapex is EPC plus private wire, developer premium and grid cost.
func TotalCapex(p domain.ModelParameters, gridCost decimal.Decimal) decimal.Decimal {
	return p.CapexPerMW.Mul(p.CapacityMW).
		Add(p.PrivateWireCost).
		Add(DeveloperPremium(p)).
		Add(gridCost)
}

// projectionState is the fold accumulator carried between years.
type projectionState struct {
	cumulativeCashFlow           decimal.Decimal
	cumulativeDiscountedCashFlow decimal.Decimal
}

// Project produces the year 0..ProjectLife records for p, with gridCost
// as the resolved grid connection figure. Escalation and degradation
// use exponent t-1; discounting uses exponent t.
func Project(p domain.ModelParameters, gridCost decimal.Decimal) ([]domain.YearRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	if gridCost.IsNegative() {
		return nil, fmt.Errorf("project: %w", &domain.ValidationError{Field: "gridCost", Message: "must not be negative"})
	}

	capex := TotalCapex(p, gridCost)
	year0 := domain.YearRecord{
		Year:                         0,
		Capex:                        capex,
		CashFlow:                     capex.Neg(),
		CumulativeCashFlow:           capex.Neg(),
		DiscountFactor:               one,
		DiscountedCost:               capex,
		DiscountedCashFlow:           capex.Neg(),
		CumulativeDiscountedCashFlow: capex.Neg(),
	}

	years := make([]domain.YearRecord, 0, p.ProjectLife+1)
	years = append(years, year0)

	state := projectionState{
		cumulativeCashFlow:           year0.CumulativeCashFlow,
		cumulativeDiscountedCashFlow: year0.CumulativeDiscountedCashFlow,
	}
	step := newYearStep(p)
	for t := 1; t <= p.ProjectLife; t++ {
		var rec domain.YearRecord
		rec, state = step(t, state)
		years = append(years, rec)
	}
	return years, nil
}

// newYearStep derives the per-run constants once and returns the
// function computing year t from the carried state.
func newYearStep(p domain.ModelParameters) func(int, projectionState) (domain.YearRecord, projectionState) {
	baseOpex := p.OpexPerMW.Mul(p.CapacityMW)
	landOption := LandOptionYear1(p)
	generation1 := p.EffectiveGenerationPerMW().Mul(p.CapacityMW)
	savingsRate := SavingsPerMWh(p)

	opexGrowth := one.Add(p.OpexEscalationRate)
	landGrowth := one.Add(p.CostInflationRate)
	retention := one.Sub(p.DegradationRate)
	discountBase := one.Add(p.DiscountRate)

	return func(t int, s projectionState) (domain.YearRecord, projectionState) {
		escalation := decimal.NewFromInt(int64(t - 1))

		landCost := landOption.Mul(landGrowth.Pow(escalation))
		opex := baseOpex.Mul(opexGrowth.Pow(escalation)).Add(landCost)
		generation := generation1.Mul(retention.Pow(escalation))
		revenue := generation.Mul(p.PPAShare).Mul(p.PowerPrice).
			Add(generation.Mul(p.ExportShare).Mul(p.ExportPrice))
		cashFlow := revenue.Sub(opex)

		df := one.DivRound(discountBase.Pow(decimal.NewFromInt(int64(t))), divPrecision)
		discountedCashFlow := cashFlow.Mul(df)

		next := projectionState{
			cumulativeCashFlow:           s.cumulativeCashFlow.Add(cashFlow),
			cumulativeDiscountedCashFlow: s.cumulativeDiscountedCashFlow.Add(discountedCashFlow),
		}

		return domain.YearRecord{
			Year:                         t,
			Opex:                         opex,
			Generation:                   generation,
			Revenue:                      revenue,
			CashFlow:                     cashFlow,
			CumulativeCashFlow:           next.cumulativeCashFlow,
			DiscountFactor:               df,
			DiscountedCost:               opex.Mul(df),
			DiscountedEnergy:             generation.Mul(df),
			DiscountedRevenue:            revenue.Mul(df),
			DiscountedCashFlow:           discountedCashFlow,
			CumulativeDiscountedCashFlow: next.cumulativeDiscountedCashFlow,
			OfftakerSavings:              generation.Mul(savingsRate),
			LandIncome:                   landCost,
		}, next
	}
}

// CashFlows extracts the nominal cash flow series, year 0 first.
func CashFlows(years []domain.YearRecord) []decimal.Decimal {
	flows := make([]decimal.Decimal, len(years))
	for i, y := range years {
		flows[i] = y.CashFlow
	}
	return flows
}
