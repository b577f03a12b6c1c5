package calculation

import (
	"testing"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func flows(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = dec(v)
	}
	return out
}

func TestSolveRate_KnownAnalyticRate(t *testing.T) {
	for _, guess := range []string{"0.1", "0.5", "-0.5", "0"} {
		opts := DefaultRateOptions()
		opts.Guess = dec(guess)

		result := SolveRate(flows("-1000", "1100"), opts)

		assert.Equal(t, domain.RateConverged, result.Status, "guess %s", guess)
		assert.Equal(t, domain.RateConverged, result.Status)
		assertDecimalNear(t, "0.1", result.Rate, "0.0001", "rate from guess "+guess)
	}
}

func TestSolveRate_ReferenceCashFlows(t *testing.T) {
	years, err := Project(referenceParameters(), decimal.Zero)
	assert.NoError(t, err)

	result := SolveRate(CashFlows(years), DefaultRateOptions())

	assert.Equal(t, domain.RateConverged, result.Status)
	assertDecimalNear(t, "0.0856491", result.Rate, "0.0000005", "reference irr")
	assert.LessOrEqual(t, result.Iterations, 10, "newton should converge quickly")
	assert.True(t, NPV(CashFlows(years), result.Rate).Abs().LessThan(dec("1")), "npv at irr should be ~0")
}

func TestSolveRate_MultiPeriod(t *testing.T) {
	// -100, +60, +60 has IRR 13.0662%
	result := SolveRate(flows("-100", "60", "60"), DefaultRateOptions())
	assert.Equal(t, domain.RateConverged, result.Status)
	assertDecimalNear(t, "0.130662", result.Rate, "0.000001", "two period irr")
}

func TestSolveRate_DegenerateSignIsUndefined(t *testing.T) {
	cases := map[string][]decimal.Decimal{
		"all positive":     flows("100", "200", "300"),
		"all negative":     flows("-100", "-1", "-5"),
		"zeros and gains":  flows("0", "0", "10"),
		"zeros and losses": flows("-10", "0"),
		"all zero":         flows("0", "0"),
		"empty":            nil,
	}

	for name, cf := range cases {
		t.Run(name, func(t *testing.T) {
			result := SolveRate(cf, DefaultRateOptions())
			assert.Equal(t, domain.RateUndefined, result.Status)
			assert.Equal(t, 0, result.Iterations, "undefined is detected before iterating")
			assert.True(t, result.Rate.IsZero())
			assert.NotEqual(t, domain.RateConverged, result.Status)
		})
	}
}

func TestSolveRate_IterationCapIsUnconverged(t *testing.T) {
	years, err := Project(referenceParameters(), decimal.Zero)
	assert.NoError(t, err)

	opts := DefaultRateOptions()
	opts.MaxIterations = 1
	result := SolveRate(CashFlows(years), opts)

	assert.Equal(t, domain.RateUnconverged, result.Status)
	assert.Equal(t, 1, result.Iterations)
	assertDecimalNear(t, "0.08467", result.Rate, "0.00001", "first newton step is still returned")
}

func TestSolveRate_RateBelowMinusOneIsUnconverged(t *testing.T) {
	opts := DefaultRateOptions()
	opts.Guess = dec("-1")

	result := SolveRate(flows("-1000", "1100"), opts)
	assert.Equal(t, domain.RateUnconverged, result.Status)
	assert.Equal(t, 0, result.Iterations)
}

func TestSolveRate_ZeroOptionsUseDefaults(t *testing.T) {
	result := SolveRate(flows("-1000", "1100"), RateOptions{Guess: dec("0.2")})
	assert.Equal(t, domain.RateConverged, result.Status)
	assertDecimalNear(t, "0.1", result.Rate, "0.0001", "defaults applied")
}

func TestNPV(t *testing.T) {
	assertDecimalNear(t, "0", NPV(flows("-1000", "1100"), dec("0.1")), "0.000001", "npv at the irr")
	assertDecimalEqual(t, "100", NPV(flows("-1000", "1100"), decimal.Zero), "undiscounted npv")
}

func TestNPV_LongHorizon(t *testing.T) {
	cashFlows := make([]decimal.Decimal, 201)
	cashFlows[200] = dec("1.1").Pow(dec("200"))

	assertDecimalNear(t, "1", NPV(cashFlows, dec("0.1")), "0.000000000001", "200 repeated divisions stay precise")
}
