package domain

import (
	"github.com/shopspring/decimal"
)

// RouteParameters describes a grid connection route. Road share and
// wayleave discount are fractions.
type RouteParameters struct {
	DistanceKm                  decimal.Decimal `json:"distanceKm"`
	RoadFraction                decimal.Decimal `json:"roadFraction"`
	CableVoltageKV              decimal.Decimal `json:"cableVoltageKV"`
	StepUpUnits                 int             `json:"stepUpUnits"`
	StepDownUnits               int             `json:"stepDownUnits"`
	RoadCrossings               int             `json:"roadCrossings"`
	IncludeStepDownInstallation bool            `json:"includeStepDownInstallation"`
	WayleaveYears               int             `json:"wayleaveYears"`
	WayleaveDiscount            decimal.Decimal `json:"wayleaveDiscount"`
	RoadLayingCostPerKm         decimal.Decimal `json:"roadLayingCostPerKm"` // zero disables road laying
	StepDownTargetKV            decimal.Decimal `json:"stepDownTargetKV"`
}

// DefaultRouteParameters returns a 33 kV, 5 km route with one
// transformer at each end.
func DefaultRouteParameters() RouteParameters {
	return RouteParameters{
		DistanceKm:          decimal.NewFromInt(5),
		RoadFraction:        decimal.NewFromFloat(0.3),
		CableVoltageKV:      decimal.NewFromInt(33),
		StepUpUnits:         1,
		StepDownUnits:       1,
		RoadCrossings:       0,
		WayleaveYears:       1,
		WayleaveDiscount:    decimal.Zero,
		RoadLayingCostPerKm: decimal.NewFromInt(150000),
		StepDownTargetKV:    decimal.NewFromInt(11),
	}
}

// Validate checks route geometry and counts.
func (r RouteParameters) Validate() error {
	one := decimal.NewFromInt(1)
	switch {
	case !r.DistanceKm.GreaterThan(decimal.Zero):
		return &ValidationError{Field: "distanceKm", Message: "must be positive"}
	case r.RoadFraction.IsNegative() || r.RoadFraction.GreaterThan(one):
		return &ValidationError{Field: "roadFraction", Message: "must be between 0% and 100%"}
	case !r.CableVoltageKV.GreaterThan(decimal.Zero):
		return &ValidationError{Field: "cableVoltageKV", Message: "must be positive"}
	case r.StepUpUnits < 0:
		return &ValidationError{Field: "stepUpUnits", Message: "must not be negative"}
	case r.StepDownUnits < 0:
		return &ValidationError{Field: "stepDownUnits", Message: "must not be negative"}
	case r.RoadCrossings < 0:
		return &ValidationError{Field: "roadCrossings", Message: "must not be negative"}
	case r.WayleaveYears < 0:
		return &ValidationError{Field: "wayleaveYears", Message: "must not be negative"}
	case r.WayleaveDiscount.IsNegative() || r.WayleaveDiscount.GreaterThan(one):
		return &ValidationError{Field: "wayleaveDiscount", Message: "must be between 0% and 100%"}
	case r.RoadLayingCostPerKm.IsNegative():
		return &ValidationError{Field: "roadLayingCostPerKm", Message: "must not be negative"}
	}
	return nil
}

// CostRange is a {min, max} cost estimate.
type CostRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Fixed returns a range whose bounds are equal.
func Fixed(v decimal.Decimal) CostRange {
	return CostRange{Min: v, Max: v}
}

// Add sums two ranges bound by bound.
func (c CostRange) Add(o CostRange) CostRange {
	return CostRange{Min: c.Min.Add(o.Min), Max: c.Max.Add(o.Max)}
}

// Mul scales both bounds.
func (c CostRange) Mul(f decimal.Decimal) CostRange {
	return CostRange{Min: c.Min.Mul(f), Max: c.Max.Mul(f)}
}

// Midpoint returns the rounded centre of the range.
func (c CostRange) Midpoint() decimal.Decimal {
	return c.Min.Add(c.Max).Div(decimal.NewFromInt(2)).Round(0)
}

// CostBreakdown is the component-by-component grid connection estimate.
type CostBreakdown struct {
	Cable                CostRange       `json:"cable"`
	StepUpTransformers   CostRange       `json:"stepUpTransformers"`
	StepDownTransformers CostRange       `json:"stepDownTransformers"`
	StepDownInstallation CostRange       `json:"stepDownInstallation"`
	JointBays            CostRange       `json:"jointBays"`
	RoadCrossings        CostRange       `json:"roadCrossings"`
	Terminations         CostRange       `json:"terminations"`
	HVTerminations       CostRange       `json:"hvTerminations"`
	Wayleaves            CostRange       `json:"wayleaves"`
	LandRights           CostRange       `json:"landRights"`
	RoadLaying           CostRange       `json:"roadLaying"`
	Total                CostRange       `json:"total"`
	JointCount           int             `json:"jointCount"`
	AgriculturalKm       decimal.Decimal `json:"agriculturalKm"`
	RoadKm               decimal.Decimal `json:"roadKm"`
	Fallbacks            []string        `json:"fallbacks,omitempty"`
}

// CostComponent names one line of a breakdown.
type CostComponent struct {
	Name  string
	Range CostRange
}

// Components lists the eleven cost lines in report order.
func (b *CostBreakdown) Components() []CostComponent {
	return []CostComponent{
		{"Cable", b.Cable},
		{"Step-up transformers", b.StepUpTransformers},
		{"Step-down transformers", b.StepDownTransformers},
		{"Step-down installation", b.StepDownInstallation},
		{"Joint bays", b.JointBays},
		{"Road crossings", b.RoadCrossings},
		{"Terminations", b.Terminations},
		{"HV terminations", b.HVTerminations},
		{"Wayleaves", b.Wayleaves},
		{"Land rights", b.LandRights},
		{"Road laying", b.RoadLaying},
	}
}

// Midpoint is the figure fed to the projector as the grid cost.
func (b *CostBreakdown) Midpoint() decimal.Decimal {
	return b.Total.Midpoint()
}
