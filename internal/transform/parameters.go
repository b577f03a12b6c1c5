package transform

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	minusOne = decimal.NewFromInt(-1)
)

// factor converts a percentage change to a multiplier: 10 gives 1.1.
func factor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percent.Div(hundred))
}

func signedPercent(percent decimal.Decimal) string {
	if percent.IsNegative() {
		return percent.String() + "%"
	}
	return "+" + percent.String() + "%"
}

func validatePercent(name string, base *domain.Scenario, percent decimal.Decimal) error {
	if base == nil {
		return NewTransformError(name, "validate", "base scenario cannot be nil", nil)
	}
	if !percent.GreaterThanOrEqual(hundred.Neg()) {
		return NewTransformError(name, "validate", fmt.Sprintf("percent must be at least -100, got %s", percent), nil)
	}
	return nil
}

// ScaleTariff changes the PPA power price by a percentage.
type ScaleTariff struct {
	Percent decimal.Decimal
}

func (st *ScaleTariff) Name() string { return "scale_tariff" }

func (st *ScaleTariff) Description() string {
	return fmt.Sprintf("Change power price by %s", signedPercent(st.Percent))
}

func (st *ScaleTariff) Validate(base *domain.Scenario) error {
	return validatePercent(st.Name(), base, st.Percent)
}

func (st *ScaleTariff) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Parameters.PowerPrice = modified.Parameters.PowerPrice.Mul(factor(st.Percent))
	return modified, nil
}

// ScaleCapex changes the EPC cost per MW by a percentage.
type ScaleCapex struct {
	Percent decimal.Decimal
}

func (sc *ScaleCapex) Name() string { return "scale_capex" }

func (sc *ScaleCapex) Description() string {
	return fmt.Sprintf("Change capex per MW by %s", signedPercent(sc.Percent))
}

func (sc *ScaleCapex) Validate(base *domain.Scenario) error {
	return validatePercent(sc.Name(), base, sc.Percent)
}

func (sc *ScaleCapex) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Parameters.CapexPerMW = modified.Parameters.CapexPerMW.Mul(factor(sc.Percent))
	return modified, nil
}

// ScaleGeneration changes specific yield by a percentage. An irradiance
// override is scaled with it so the change always takes effect.
type ScaleGeneration struct {
	Percent decimal.Decimal
}

func (sg *ScaleGeneration) Name() string { return "scale_generation" }

func (sg *ScaleGeneration) Description() string {
	return fmt.Sprintf("Change generation per MW by %s", signedPercent(sg.Percent))
}

func (sg *ScaleGeneration) Validate(base *domain.Scenario) error {
	return validatePercent(sg.Name(), base, sg.Percent)
}

func (sg *ScaleGeneration) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	f := factor(sg.Percent)
	modified.Parameters.GenerationPerMW = modified.Parameters.GenerationPerMW.Mul(f)
	modified.Parameters.IrradianceOverride = modified.Parameters.IrradianceOverride.Mul(f)
	return modified, nil
}

// SetDiscountRate replaces the discount rate. Rate is a fraction.
type SetDiscountRate struct {
	Rate decimal.Decimal
}

func (sd *SetDiscountRate) Name() string { return "set_discount_rate" }

func (sd *SetDiscountRate) Description() string {
	return fmt.Sprintf("Set discount rate to %s%%", sd.Rate.Mul(hundred).StringFixed(1))
}

func (sd *SetDiscountRate) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sd.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if !sd.Rate.GreaterThan(minusOne) {
		return NewTransformError(sd.Name(), "validate", fmt.Sprintf("rate must be greater than -1, got %s", sd.Rate), nil)
	}
	return nil
}

func (sd *SetDiscountRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Parameters.DiscountRate = sd.Rate
	return modified, nil
}

// SetProjectLife replaces the number of operating years.
type SetProjectLife struct {
	Years int
}

func (sp *SetProjectLife) Name() string { return "set_project_life" }

func (sp *SetProjectLife) Description() string {
	return fmt.Sprintf("Set project life to %d years", sp.Years)
}

func (sp *SetProjectLife) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sp.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sp.Years < 1 {
		return NewTransformError(sp.Name(), "validate", fmt.Sprintf("years must be at least 1, got %d", sp.Years), nil)
	}
	return nil
}

func (sp *SetProjectLife) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Parameters.ProjectLife = sp.Years
	return modified, nil
}

// SetGridCost fixes the grid connection cost through the manual override.
type SetGridCost struct {
	Amount decimal.Decimal
}

func (sg *SetGridCost) Name() string { return "set_grid_cost" }

func (sg *SetGridCost) Description() string {
	return fmt.Sprintf("Set grid connection cost to %s", sg.Amount.StringFixed(0))
}

func (sg *SetGridCost) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sg.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sg.Amount.IsNegative() {
		return NewTransformError(sg.Name(), "validate", fmt.Sprintf("amount must be non-negative, got %s", sg.Amount), nil)
	}
	return nil
}

func (sg *SetGridCost) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Parameters.GridCostOverrideEnabled = true
	modified.Parameters.GridCostOverride = sg.Amount
	return modified, nil
}

// SetRoute moves the grid connection and prices it from the route
// estimate. Zero fields keep the current route's values.
type SetRoute struct {
	VoltageKV  decimal.Decimal
	DistanceKm decimal.Decimal
}

func (sr *SetRoute) Name() string { return "set_route" }

func (sr *SetRoute) Description() string {
	switch {
	case sr.VoltageKV.IsZero():
		return fmt.Sprintf("Connect over %s km", sr.DistanceKm)
	case sr.DistanceKm.IsZero():
		return fmt.Sprintf("Connect at %s kV", sr.VoltageKV)
	default:
		return fmt.Sprintf("Connect at %s kV over %s km", sr.VoltageKV, sr.DistanceKm)
	}
}

func (sr *SetRoute) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sr.VoltageKV.IsNegative() || sr.DistanceKm.IsNegative() {
		return NewTransformError(sr.Name(), "validate", "voltage and distance must be non-negative", nil)
	}
	if sr.VoltageKV.IsZero() && sr.DistanceKm.IsZero() {
		return NewTransformError(sr.Name(), "validate", "voltage or distance is required", nil)
	}
	return nil
}

func (sr *SetRoute) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	if modified.Route == nil {
		route := domain.DefaultRouteParameters()
		modified.Route = &route
	}
	if sr.VoltageKV.IsPositive() {
		modified.Route.CableVoltageKV = sr.VoltageKV
	}
	if sr.DistanceKm.IsPositive() {
		modified.Route.DistanceKm = sr.DistanceKm
	}
	modified.UseGridEstimate = true
	return modified, nil
}

// SetLandOption turns the land option payments on or off.
type SetLandOption struct {
	Enabled bool
}

func (sl *SetLandOption) Name() string { return "set_land_option" }

func (sl *SetLandOption) Description() string {
	if sl.Enabled {
		return "Enable land option payments"
	}
	return "Disable land option payments"
}

func (sl *SetLandOption) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sl.Name(), "validate", "base scenario cannot be nil", nil)
	}
	return nil
}

func (sl *SetLandOption) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Parameters.LandOptionEnabled = sl.Enabled
	return modified, nil
}
