package calculation

import (
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// RateOptions configures the rate-of-return solver.
type RateOptions struct {
	Guess         decimal.Decimal // starting rate
	Tolerance     decimal.Decimal // stop when |Δr| falls below this
	MaxIterations int
}

// DefaultRateOptions starts at 10% and iterates up to 1000 times to 1e-7.
func DefaultRateOptions() RateOptions {
	return RateOptions{
		Guess:         decimal.NewFromFloat(0.10),
		Tolerance:     decimal.New(1, -7),
		MaxIterations: 1000,
	}
}

// RateResult is the outcome of a rate-of-return solve. Rate is the last
// estimate; it is only a root when Status is converged.
type RateResult struct {
	Rate       decimal.Decimal   `json:"rate"`
	Status     domain.RateStatus `json:"status"`
	Iterations int               `json:"iterations"`
}

// ratePrecision bounds the digits carried between Newton steps.
const ratePrecision = 15

// SolveRate finds the rate at which the NPV of cashFlows (period 0
// first) is zero, using Newton-Raphson. Zero-valued options take the
// defaults. Sequences without a sign change are reported as undefined
// without iterating.
func SolveRate(cashFlows []decimal.Decimal, opts RateOptions) RateResult {
	defaults := DefaultRateOptions()
	if opts.Tolerance.IsZero() {
		opts.Tolerance = defaults.Tolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = defaults.MaxIterations
	}

	if !hasSignChange(cashFlows) {
		return RateResult{Rate: decimal.Zero, Status: domain.RateUndefined}
	}

	rate := opts.Guess
	for i := 1; i <= opts.MaxIterations; i++ {
		base := one.Add(rate)
		if !base.IsPositive() {
			return RateResult{Rate: rate, Status: domain.RateUnconverged, Iterations: i - 1}
		}

		npv, slope := npvAndSlope(cashFlows, base)
		if slope.IsZero() {
			return RateResult{Rate: rate, Status: domain.RateUnconverged, Iterations: i}
		}

		next := rate.Sub(npv.Div(slope)).Round(ratePrecision)
		delta := next.Sub(rate).Abs()
		rate = next
		if delta.LessThan(opts.Tolerance) {
			return RateResult{Rate: rate, Status: domain.RateConverged, Iterations: i}
		}
	}

	return RateResult{Rate: rate, Status: domain.RateUnconverged, Iterations: opts.MaxIterations}
}

// npvAndSlope evaluates NPV and dNPV/dr at rate base-1. The discount
// factor is carried by repeated division so no power is recomputed.
func npvAndSlope(cashFlows []decimal.Decimal, base decimal.Decimal) (npv, slope decimal.Decimal) {
	disc := one
	for t, cf := range cashFlows {
		if t > 0 {
			disc = disc.DivRound(base, divPrecision)
		}
		pv := cf.Mul(disc)
		npv = npv.Add(pv)
		slope = slope.Sub(pv.Mul(decimal.NewFromInt(int64(t))).DivRound(base, divPrecision))
	}
	return npv, slope
}

// hasSignChange reports whether the series has both a strictly
// positive and a strictly negative value.
func hasSignChange(cashFlows []decimal.Decimal) bool {
	var pos, neg bool
	for _, cf := range cashFlows {
		switch cf.Sign() {
		case 1:
			pos = true
		case -1:
			neg = true
		}
	}
	return pos && neg
}

// NPV discounts cashFlows at rate, period 0 undiscounted.
func NPV(cashFlows []decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	npv, _ := npvAndSlope(cashFlows, one.Add(rate))
	return npv
}
