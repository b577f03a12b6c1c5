package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/gridcost"
	"github.com/shopspring/decimal"
)

// CalculationEngine runs the full model pipeline:
// grid cost, projection, rate of return and summary.
type CalculationEngine struct {
	Logger      Logger
	RateOptions RateOptions
}

// NewCalculationEngine creates an engine with default solver options
// and a discarding logger.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Logger:      NopLogger{},
		RateOptions: DefaultRateOptions(),
	}
}

// SetLogger installs l, or a NopLogger when l is nil.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// Run evaluates p with its own resolved grid cost.
func (ce *CalculationEngine) Run(p domain.ModelParameters) (*domain.ModelResult, error) {
	return ce.RunWithGridCost(p, ResolveGridCost(p))
}

// RunWithGridCost evaluates p with an explicitly resolved grid cost.
func (ce *CalculationEngine) RunWithGridCost(p domain.ModelParameters, gridCost decimal.Decimal) (*domain.ModelResult, error) {
	years, err := Project(p, gridCost)
	if err != nil {
		return nil, err
	}

	irr := SolveRate(CashFlows(years), ce.RateOptions)
	switch irr.Status {
	case domain.RateUnconverged:
		ce.logger().Warnf("irr did not converge after %d iterations, last estimate %s", irr.Iterations, irr.Rate.StringFixed(6))
	case domain.RateUndefined:
		ce.logger().Debugf("irr undefined: cash flows never change sign")
	}

	summary, err := Summarize(years, irr, p)
	if err != nil {
		if errors.Is(err, ErrNoEnergy) {
			return nil, &CalculationError{Operation: "run", Message: "levelized cost undefined", Cause: err}
		}
		return nil, err
	}

	return &domain.ModelResult{
		Parameters: p,
		GridCost:   gridCost,
		Years:      years,
		Summary:    *summary,
	}, nil
}

// EstimateGridCost prices a route and logs every lookup fallback.
func (ce *CalculationEngine) EstimateGridCost(route domain.RouteParameters) (*domain.CostBreakdown, error) {
	b, err := gridcost.Estimate(route)
	if err != nil {
		return nil, err
	}
	for _, f := range b.Fallbacks {
		ce.logger().Warnf("grid cost lookup fallback: %s", f)
	}
	ce.logger().Debugf("grid cost estimate %s to %s over %s km", b.Total.Min.StringFixed(0), b.Total.Max.StringFixed(0), route.DistanceKm)
	return b, nil
}

// RunScenario resolves the scenario's grid cost and evaluates it.
func (ce *CalculationEngine) RunScenario(s *domain.Scenario) (*domain.ModelResult, error) {
	p, breakdown, err := ce.ResolveScenario(s)
	if err != nil {
		return nil, err
	}

	ce.logger().Infof("running scenario %q: %s MW over %d years", s.Name, p.CapacityMW, p.ProjectLife)
	result, err := ce.Run(p)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	result.Name = s.Name
	result.GridCosts = breakdown
	return result, nil
}

// ResolveScenario returns the scenario's parameters with its route applied,
// plus the route's cost breakdown when it has one.
func (ce *CalculationEngine) ResolveScenario(s *domain.Scenario) (domain.ModelParameters, *domain.CostBreakdown, error) {
	if s == nil {
		return domain.ModelParameters{}, nil, &CalculationError{Operation: "run_scenario", Message: "scenario is nil"}
	}

	p := s.Parameters
	if s.Route == nil {
		if s.UseGridEstimate {
			return p, nil, &CalculationError{Operation: "run_scenario", Message: fmt.Sprintf("scenario %q asks for a grid estimate but has no route", s.Name)}
		}
		return p, nil, nil
	}

	b, err := ce.EstimateGridCost(*s.Route)
	if err != nil {
		return p, nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	p.CableVoltageKV = s.Route.CableVoltageKV
	p.DistanceKm = s.Route.DistanceKm
	if s.UseGridEstimate {
		p.GridConnectionCost = b.Midpoint()
	}
	return p, b, nil
}
