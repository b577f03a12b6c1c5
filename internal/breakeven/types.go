package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// Target is the model input the solver moves
type Target string

const (
	TargetPowerPrice Target = "power_price"
	TargetCapexPerMW Target = "capex_per_mw"
	TargetGridCost   Target = "grid_cost"
)

// Targets lists every supported target in display order
func Targets() []Target {
	return []Target{TargetPowerPrice, TargetCapexPerMW, TargetGridCost}
}

// Goal defines the outcome the target must reach
type Goal string

const (
	GoalZeroNPV   Goal = "zero_npv"   // NPV at the model discount rate is zero
	GoalTargetIRR Goal = "target_irr" // IRR equals Request.TargetIRR
)

// Bounds is the search interval for the target
type Bounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// DefaultBounds returns the search interval used when a request gives none
func DefaultBounds(t Target) (Bounds, bool) {
	switch t {
	case TargetPowerPrice:
		return Bounds{Min: decimal.Zero, Max: decimal.NewFromInt(1000)}, true
	case TargetCapexPerMW:
		return Bounds{Min: decimal.Zero, Max: decimal.NewFromInt(5_000_000)}, true
	case TargetGridCost:
		return Bounds{Min: decimal.Zero, Max: decimal.NewFromInt(100_000_000)}, true
	default:
		return Bounds{}, false
	}
}

// Request defines a single break-even solve
type Request struct {
	Baseline      domain.ModelParameters `json:"baseline"`
	Target        Target                 `json:"target"`
	Goal          Goal                   `json:"goal"`
	TargetIRR     decimal.Decimal        `json:"targetIRR,omitempty"` // fraction, used by GoalTargetIRR
	Bounds        *Bounds                `json:"bounds,omitempty"`
	MaxIterations int                    `json:"maxIterations,omitempty"`
	Tolerance     decimal.Decimal        `json:"tolerance,omitempty"` // width of the final interval, in target units
}

// Validate checks the request is internally consistent
func (r Request) Validate() error {
	if _, ok := DefaultBounds(r.Target); !ok {
		return &BreakEvenError{Operation: "validate_request", Message: fmt.Sprintf("unsupported target: %s", r.Target)}
	}
	switch r.Goal {
	case GoalZeroNPV:
	case GoalTargetIRR:
		if !r.TargetIRR.GreaterThan(decimal.NewFromInt(-1)) {
			return &BreakEvenError{Operation: "validate_request", Message: "target IRR must be greater than -100%"}
		}
	default:
		return &BreakEvenError{Operation: "validate_request", Message: fmt.Sprintf("unsupported goal: %s", r.Goal)}
	}
	if r.Bounds != nil {
		if r.Bounds.Min.IsNegative() {
			return &BreakEvenError{Operation: "validate_request", Message: "lower bound must not be negative"}
		}
		if !r.Bounds.Max.GreaterThan(r.Bounds.Min) {
			return &BreakEvenError{Operation: "validate_request", Message: "upper bound must be greater than lower bound"}
		}
	}
	if err := r.Baseline.Validate(); err != nil {
		return &BreakEvenError{Operation: "validate_request", Message: "invalid baseline", Cause: err}
	}
	return nil
}

// Result is the outcome of a break-even solve
type Result struct {
	Target    Target          `json:"target"`
	Goal      Goal            `json:"goal"`
	TargetIRR decimal.Decimal `json:"targetIRR,omitempty"`

	// Value is the break-even level of the target; Baseline is its current level.
	Value    decimal.Decimal `json:"value"`
	Baseline decimal.Decimal `json:"baseline"`
	Headroom decimal.Decimal `json:"headroom"` // Value - Baseline

	Converged       bool   `json:"converged"`
	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergenceInfo"`

	// Summary of the model run at Value, at the baseline discount rate.
	Summary domain.SummaryMetrics `json:"summary"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Tolerance     decimal.Decimal
	MaxIterations int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.001),
		MaxIterations: 200,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
