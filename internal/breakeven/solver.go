// Package breakeven finds the level of a model input at which a project
// just meets a return goal.
package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver bisects a single model input against an NPV goal
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve finds the target value at which the goal is met. A target IRR
// is solved as zero NPV discounted at that IRR, which holds for any
// cash flow with a single sign change.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}
	bounds, _ := DefaultBounds(req.Target)
	if req.Bounds != nil {
		bounds = *req.Bounds
	}

	npvAt := func(x decimal.Decimal) (decimal.Decimal, error) {
		result, err := s.CalcEngine.Run(apply(req.Baseline, req.Target, x))
		if err != nil {
			return decimal.Zero, &BreakEvenError{
				Operation: "solve",
				Message:   fmt.Sprintf("failed to evaluate %s = %s", req.Target, x),
				Cause:     err,
			}
		}
		if req.Goal == GoalTargetIRR {
			return calculation.NPV(calculation.CashFlows(result.Years), req.TargetIRR), nil
		}
		return result.Summary.TotalDiscountedCashFlow, nil
	}

	lo, hi := bounds.Min, bounds.Max
	fLo, err := npvAt(lo)
	if err != nil {
		return nil, err
	}
	fHi, err := npvAt(hi)
	if err != nil {
		return nil, err
	}
	if fLo.Sign() != 0 && fLo.Sign() == fHi.Sign() {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("no break-even %s between %s and %s", req.Target, lo, hi),
		}
	}

	value := lo
	converged := fLo.IsZero()
	iterations := 0
	info := "goal met at lower bound"
	if fHi.IsZero() {
		value, converged, info = hi, true, "goal met at upper bound"
	}

	for !converged && iterations < req.MaxIterations {
		iterations++

		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		fMid, err := npvAt(mid)
		if err != nil {
			return nil, err
		}
		value = mid

		if fMid.IsZero() {
			converged, info = true, "goal met exactly"
			break
		}
		if fMid.Sign() == fLo.Sign() {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
		if hi.Sub(lo).LessThan(req.Tolerance) {
			converged, info = true, fmt.Sprintf("converged within %s", req.Tolerance)
		}
	}
	if !converged {
		info = fmt.Sprintf("max iterations (%d) reached", req.MaxIterations)
	}

	final, err := s.CalcEngine.Run(apply(req.Baseline, req.Target, value))
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to evaluate break-even point", Cause: err}
	}

	baseline := current(req.Baseline, req.Target)
	return &Result{
		Target:          req.Target,
		Goal:            req.Goal,
		TargetIRR:       req.TargetIRR,
		Value:           value,
		Baseline:        baseline,
		Headroom:        value.Sub(baseline),
		Converged:       converged,
		Iterations:      iterations,
		ConvergenceInfo: info,
		Summary:         final.Summary,
	}, nil
}

// apply returns p with the target set to x. Grid cost is applied as an
// enabled override so it wins over any configured connection cost.
func apply(p domain.ModelParameters, t Target, x decimal.Decimal) domain.ModelParameters {
	switch t {
	case TargetPowerPrice:
		p.PowerPrice = x
	case TargetCapexPerMW:
		p.CapexPerMW = x
	case TargetGridCost:
		p.GridCostOverrideEnabled = true
		p.GridCostOverride = x
	}
	return p
}

// current reads the target's level from p
func current(p domain.ModelParameters, t Target) decimal.Decimal {
	switch t {
	case TargetPowerPrice:
		return p.PowerPrice
	case TargetCapexPerMW:
		return p.CapexPerMW
	case TargetGridCost:
		return calculation.ResolveGridCost(p)
	default:
		return decimal.Zero
	}
}
