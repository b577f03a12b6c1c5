package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNoEnergy is returned when a projection generates nothing, leaving
// the levelized cost undefined.
var ErrNoEnergy = errors.New("projection generates no energy")

// Summarize aggregates a projection into headline metrics.
func Summarize(years []domain.YearRecord, irr RateResult, p domain.ModelParameters) (*domain.SummaryMetrics, error) {
	if len(years) == 0 {
		return nil, &CalculationError{Operation: "summarize", Message: "no year records"}
	}

	s := &domain.SummaryMetrics{
		IRR:       irr.Rate,
		IRRStatus: irr.Status,
	}
	for _, y := range years {
		s.TotalCapex = s.TotalCapex.Add(y.Capex)
		s.TotalOpex = s.TotalOpex.Add(y.Opex)
		s.TotalGeneration = s.TotalGeneration.Add(y.Generation)
		s.TotalRevenue = s.TotalRevenue.Add(y.Revenue)
		s.TotalCashFlow = s.TotalCashFlow.Add(y.CashFlow)
		s.TotalDiscountedCost = s.TotalDiscountedCost.Add(y.DiscountedCost)
		s.TotalDiscountedEnergy = s.TotalDiscountedEnergy.Add(y.DiscountedEnergy)
		s.TotalDiscountedRevenue = s.TotalDiscountedRevenue.Add(y.DiscountedRevenue)
		s.TotalDiscountedCashFlow = s.TotalDiscountedCashFlow.Add(y.DiscountedCashFlow)
		s.TotalSavings = s.TotalSavings.Add(y.OfftakerSavings)
		s.TotalLandOptionIncome = s.TotalLandOptionIncome.Add(y.LandIncome)
	}

	if s.TotalDiscountedEnergy.IsZero() || s.TotalGeneration.IsZero() {
		return nil, fmt.Errorf("summarize: %w", ErrNoEnergy)
	}
	s.LCOE = s.TotalDiscountedCost.Div(s.TotalDiscountedEnergy)
	s.UndiscountedLCOE = s.TotalCapex.Add(s.TotalOpex).Div(s.TotalGeneration)

	s.PaybackPeriod, s.PaysBack = paybackPeriod(years, p.ProjectLife)

	if p.CapacityMW.IsPositive() {
		s.CapexPerMW = s.TotalCapex.Div(p.CapacityMW)
	}

	if p.ProjectLife > 0 {
		avgGeneration := s.TotalGeneration.Div(decimal.NewFromInt(int64(p.ProjectLife)))
		s.YearlySavings = avgGeneration.Mul(SavingsPerMWh(p))
	}

	landOption := LandOptionYear1(p)
	s.YearlyRentalIncome = landOption
	if p.LandValue.IsPositive() {
		s.LandOptionYield = landOption.Div(p.LandValue)
	}
	s.TotalDeveloperPremium = DeveloperPremium(p)

	return s, nil
}

// paybackPeriod interpolates the fractional year at which cumulative
// discounted cash flow first reaches zero. Without payback inside the
// horizon it returns projectLife+1 and false.
func paybackPeriod(years []domain.YearRecord, projectLife int) (decimal.Decimal, bool) {
	for i := 1; i < len(years); i++ {
		curr := years[i].CumulativeDiscountedCashFlow
		if curr.IsNegative() {
			continue
		}
		prev := years[i-1].CumulativeDiscountedCashFlow
		elapsed := decimal.NewFromInt(int64(i - 1))
		if curr.Equal(prev) {
			return elapsed, true
		}
		return elapsed.Add(prev.Abs().Div(curr.Sub(prev))), true
	}
	return decimal.NewFromInt(int64(projectLife + 1)), false
}
