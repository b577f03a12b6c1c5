package breakeven

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, req Request) *Result {
	t.Helper()
	result, err := NewDefaultSolver(nil).Solve(context.Background(), req)
	require.NoError(t, err)
	return result
}

func npvAt(t *testing.T, p domain.ModelParameters) decimal.Decimal {
	t.Helper()
	result, err := calculation.NewCalculationEngine().Run(p)
	require.NoError(t, err)
	return result.Summary.TotalDiscountedCashFlow
}

func TestNewSolver(t *testing.T) {
	engine := calculation.NewCalculationEngine()
	options := SolverOptions{Tolerance: decimal.NewFromInt(1), MaxIterations: 7}

	solver := NewSolver(engine, options)
	assert.Same(t, engine, solver.CalcEngine)
	assert.Equal(t, options, solver.Options)

	assert.NotNil(t, NewDefaultSolver(nil).CalcEngine, "nil engine replaced with a default")
	assert.Equal(t, 200, NewDefaultSolver(nil).Options.MaxIterations)
}

func TestSolve_PowerPriceZeroNPV(t *testing.T) {
	p := domain.DefaultModelParameters()
	result := solve(t, Request{Baseline: p, Target: TargetPowerPrice, Goal: GoalZeroNPV})

	assert.True(t, result.Converged)
	assert.True(t, result.Baseline.Equal(decimal.NewFromInt(110)))
	// The reference model loses money at 10%, so the break-even tariff is higher
	assert.True(t, result.Value.GreaterThan(decimal.NewFromInt(110)), result.Value.String())
	assert.True(t, result.Headroom.IsPositive())

	p.PowerPrice = result.Value
	assert.InDelta(t, 0, npvAt(t, p).InexactFloat64(), 1000)
	assert.InDelta(t, 0, result.Summary.TotalDiscountedCashFlow.InexactFloat64(), 1000)
}

func TestSolve_PowerPriceTargetIRRRecoversTariff(t *testing.T) {
	result := solve(t, Request{
		Baseline:  domain.DefaultModelParameters(),
		Target:    TargetPowerPrice,
		Goal:      GoalTargetIRR,
		TargetIRR: decimal.RequireFromString("0.0856491"),
	})

	assert.True(t, result.Converged)
	assert.InDelta(t, 110, result.Value.InexactFloat64(), 0.05)
	assert.InDelta(t, 0.0856491, result.Summary.IRR.InexactFloat64(), 0.0001)
	// Summary is reported at the baseline discount rate, where NPV is still negative
	assert.True(t, result.Summary.TotalDiscountedCashFlow.IsNegative())
}

func TestSolve_CapexPerMWZeroNPV(t *testing.T) {
	p := domain.DefaultModelParameters()
	result := solve(t, Request{Baseline: p, Target: TargetCapexPerMW, Goal: GoalZeroNPV})

	assert.True(t, result.Converged)
	assert.True(t, result.Value.LessThan(p.CapexPerMW))
	assert.True(t, result.Headroom.IsNegative())

	p.CapexPerMW = result.Value
	assert.InDelta(t, 0, npvAt(t, p).InexactFloat64(), 100)
}

func TestSolve_GridCostTargetIRR(t *testing.T) {
	p := domain.DefaultModelParameters()
	target := decimal.RequireFromString("0.05")
	result := solve(t, Request{Baseline: p, Target: TargetGridCost, Goal: GoalTargetIRR, TargetIRR: target})

	assert.True(t, result.Converged)
	assert.True(t, result.Value.IsPositive())
	assert.True(t, result.Baseline.IsZero())
	assert.True(t, result.Headroom.Equal(result.Value))
	assert.Equal(t, domain.RateConverged, result.Summary.IRRStatus)
	assert.InDelta(t, 0.05, result.Summary.IRR.InexactFloat64(), 0.0005)
}

func TestSolve_GridCostBaselineUsesOverride(t *testing.T) {
	p := domain.DefaultModelParameters()
	p.GridConnectionCost = decimal.NewFromInt(500000)
	p.GridCostOverrideEnabled = true
	p.GridCostOverride = decimal.NewFromInt(250000)

	result := solve(t, Request{Baseline: p, Target: TargetGridCost, Goal: GoalTargetIRR, TargetIRR: decimal.RequireFromString("0.05")})
	assert.True(t, result.Baseline.Equal(decimal.NewFromInt(250000)))
}

func TestSolve_NoBreakEvenInBounds(t *testing.T) {
	// Even a free grid connection leaves NPV negative at 10%
	_, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		Baseline: domain.DefaultModelParameters(),
		Target:   TargetGridCost,
		Goal:     GoalZeroNPV,
	})

	var be *BreakEvenError
	require.True(t, errors.As(err, &be))
	assert.Contains(t, be.Message, "no break-even grid_cost")
}

func TestSolve_CustomBounds(t *testing.T) {
	result := solve(t, Request{
		Baseline: domain.DefaultModelParameters(),
		Target:   TargetPowerPrice,
		Goal:     GoalZeroNPV,
		Bounds:   &Bounds{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(200)},
	})
	assert.True(t, result.Value.GreaterThan(decimal.NewFromInt(100)))
	assert.True(t, result.Value.LessThan(decimal.NewFromInt(200)))
}

func TestSolve_MaxIterations(t *testing.T) {
	result := solve(t, Request{
		Baseline:      domain.DefaultModelParameters(),
		Target:        TargetPowerPrice,
		Goal:          GoalZeroNPV,
		MaxIterations: 1,
	})

	assert.False(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "max iterations (1) reached", result.ConvergenceInfo)
	assert.True(t, result.Value.Equal(decimal.NewFromInt(500)), "one bisection lands on the midpoint")
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver(nil).Solve(ctx, Request{
		Baseline: domain.DefaultModelParameters(),
		Target:   TargetPowerPrice,
		Goal:     GoalZeroNPV,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestValidate(t *testing.T) {
	base := Request{Baseline: domain.DefaultModelParameters(), Target: TargetPowerPrice, Goal: GoalZeroNPV}
	invalidLife := domain.DefaultModelParameters()
	invalidLife.ProjectLife = 0

	tests := []struct {
		name   string
		modify func(*Request)
		want   string
	}{
		{"unknown target", func(r *Request) { r.Target = "opex" }, "unsupported target: opex"},
		{"unknown goal", func(r *Request) { r.Goal = "max_npv" }, "unsupported goal: max_npv"},
		{"irr too low", func(r *Request) { r.Goal, r.TargetIRR = GoalTargetIRR, decimal.NewFromInt(-2) }, "target IRR"},
		{"negative bound", func(r *Request) { r.Bounds = &Bounds{Min: decimal.NewFromInt(-1), Max: decimal.NewFromInt(1)} }, "lower bound"},
		{"inverted bounds", func(r *Request) { r.Bounds = &Bounds{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(5)} }, "upper bound"},
		{"invalid baseline", func(r *Request) { r.Baseline = invalidLife }, "invalid baseline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.modify(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, base.Validate())

	req := base
	req.Baseline = invalidLife
	assert.True(t, domain.IsValidationError(req.Validate()), "baseline error is unwrappable")
}

func TestDefaultBounds(t *testing.T) {
	for _, target := range Targets() {
		b, ok := DefaultBounds(target)
		require.True(t, ok, target)
		assert.True(t, b.Max.GreaterThan(b.Min), target)
	}
	_, ok := DefaultBounds("unknown")
	assert.False(t, ok)
}

func TestTableFormatter(t *testing.T) {
	result := solve(t, Request{Baseline: domain.DefaultModelParameters(), Target: TargetPowerPrice, Goal: GoalZeroNPV})

	text := (&TableFormatter{}).Format(result)
	assert.Contains(t, text, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, text, "power price (£/MWh)")
	assert.Contains(t, text, "zero NPV at the model discount rate")
	assert.Contains(t, text, "Status:      converged")
	assert.Contains(t, text, "Current value:    £110.00/MWh")
	assert.Contains(t, text, "Headroom:         +£")
}

func TestTableFormatterTargetIRR(t *testing.T) {
	result := &Result{Target: TargetGridCost, Goal: GoalTargetIRR, TargetIRR: decimal.RequireFromString("0.08"), Headroom: decimal.NewFromInt(-1500)}

	text := (&TableFormatter{}).Format(result)
	assert.Contains(t, text, "IRR of 8.00%")
	assert.Contains(t, text, "not converged")
	assert.Contains(t, text, "Headroom:         -£1,500")
}

func TestJSONFormatter(t *testing.T) {
	result := &Result{Target: TargetCapexPerMW, Goal: GoalZeroNPV, Value: decimal.NewFromInt(400000), Converged: true}

	text, err := (&JSONFormatter{}).Format(result)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, TargetCapexPerMW, decoded.Target)
	assert.True(t, decoded.Value.Equal(decimal.NewFromInt(400000)))
}
