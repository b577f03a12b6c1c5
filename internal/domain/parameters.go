package domain

import (
	"github.com/shopspring/decimal"
)

// ModelParameters is the full input record of a solar asset model run.
// Every rate, share and discount is a fraction (0.025 means 2.5%).
// Percentage inputs are converted at the config boundary.
type ModelParameters struct {
	// Capacity
	CapacityMW decimal.Decimal `json:"capacityMW"`

	// Capital costs
	CapexPerMW              decimal.Decimal `json:"capexPerMW"`
	PrivateWireCost         decimal.Decimal `json:"privateWireCost"`
	GridConnectionCost      decimal.Decimal `json:"gridConnectionCost"`
	GridCostOverrideEnabled bool            `json:"gridCostOverrideEnabled"`
	GridCostOverride        decimal.Decimal `json:"gridCostOverride"`

	// Developer premium, paid once as part of capex
	DevelopmentPremiumEnabled  bool            `json:"developmentPremiumEnabled"`
	DevelopmentPremiumPerMW    decimal.Decimal `json:"developmentPremiumPerMW"`
	DevelopmentPremiumDiscount decimal.Decimal `json:"developmentPremiumDiscount"`

	// Land option, paid annually and escalated with CostInflationRate
	LandOptionEnabled   bool            `json:"landOptionEnabled"`
	LandOptionCostPerMW decimal.Decimal `json:"landOptionCostPerMW"`
	LandOptionDiscount  decimal.Decimal `json:"landOptionDiscount"`
	CostInflationRate   decimal.Decimal `json:"costInflationRate"`

	// Operating cost
	OpexPerMW          decimal.Decimal `json:"opexPerMW"`
	OpexEscalationRate decimal.Decimal `json:"opexEscalationRate"`

	// Generation (MWh per MW per year)
	GenerationPerMW    decimal.Decimal `json:"generationPerMW"`
	IrradianceOverride decimal.Decimal `json:"irradianceOverride"`
	DegradationRate    decimal.Decimal `json:"degradationRate"`

	// Horizon and discounting
	ProjectLife  int             `json:"projectLife"`
	DiscountRate decimal.Decimal `json:"discountRate"`

	// Tariff model. PPAShare and ExportShare need not sum to one;
	// unallocated generation earns nothing.
	PowerPrice           decimal.Decimal `json:"powerPrice"`
	PPAShare             decimal.Decimal `json:"ppaShare"`
	ExportShare          decimal.Decimal `json:"exportShare"`
	ExportPrice          decimal.Decimal `json:"exportPrice"`
	OffsetableEnergyCost decimal.Decimal `json:"offsetableEnergyCost"`

	// Stakeholder context
	LandValue decimal.Decimal `json:"landValue"`

	// Tags describing where the grid cost came from (informational)
	CableVoltageKV decimal.Decimal `json:"cableVoltageKV"`
	DistanceKm     decimal.Decimal `json:"distanceKm"`
}

// DefaultModelParameters returns the reference 28 MW model.
func DefaultModelParameters() ModelParameters {
	return ModelParameters{
		CapacityMW:                 decimal.NewFromInt(28),
		CapexPerMW:                 decimal.NewFromInt(437590),
		PrivateWireCost:            decimal.NewFromInt(6400000),
		GridConnectionCost:         decimal.Zero,
		DevelopmentPremiumEnabled:  true,
		DevelopmentPremiumPerMW:    decimal.NewFromInt(50000),
		DevelopmentPremiumDiscount: decimal.Zero,
		LandOptionEnabled:          true,
		LandOptionCostPerMW:        decimal.NewFromInt(5000),
		LandOptionDiscount:         decimal.Zero,
		CostInflationRate:          decimal.NewFromFloat(0.025),
		OpexPerMW:                  decimal.NewFromInt(15100),
		OpexEscalationRate:         decimal.Zero,
		GenerationPerMW:            decimal.NewFromFloat(944.82),
		IrradianceOverride:         decimal.Zero,
		DegradationRate:            decimal.NewFromFloat(0.004),
		ProjectLife:                15,
		DiscountRate:               decimal.NewFromFloat(0.10),
		PowerPrice:                 decimal.NewFromInt(110),
		PPAShare:                   decimal.NewFromInt(1),
		ExportShare:                decimal.Zero,
		ExportPrice:                decimal.NewFromInt(50),
		OffsetableEnergyCost:       decimal.NewFromInt(120),
		LandValue:                  decimal.Zero,
	}
}

// EffectiveGenerationPerMW returns the irradiance override when one is
// set, otherwise the default generation yield.
func (p ModelParameters) EffectiveGenerationPerMW() decimal.Decimal {
	if p.IrradianceOverride.GreaterThan(decimal.Zero) {
		return p.IrradianceOverride
	}
	return p.GenerationPerMW
}

// Validate rejects parameter sets that would produce NaN-like results.
func (p ModelParameters) Validate() error {
	one := decimal.NewFromInt(1)

	if !p.CapacityMW.GreaterThan(decimal.Zero) {
		return &ValidationError{Field: "capacityMW", Message: "must be positive"}
	}
	if p.ProjectLife < 1 {
		return &ValidationError{Field: "projectLife", Message: "must be at least 1 year"}
	}
	if !p.DiscountRate.GreaterThan(one.Neg()) {
		return &ValidationError{Field: "discountRate", Message: "must be greater than -100%"}
	}
	if p.DegradationRate.LessThan(decimal.Zero) || !p.DegradationRate.LessThan(one) {
		return &ValidationError{Field: "degradationRate", Message: "must be in [0, 1)"}
	}

	nonNegative := map[string]decimal.Decimal{
		"capexPerMW":              p.CapexPerMW,
		"privateWireCost":         p.PrivateWireCost,
		"gridConnectionCost":      p.GridConnectionCost,
		"gridCostOverride":        p.GridCostOverride,
		"developmentPremiumPerMW": p.DevelopmentPremiumPerMW,
		"landOptionCostPerMW":     p.LandOptionCostPerMW,
		"opexPerMW":               p.OpexPerMW,
		"generationPerMW":         p.GenerationPerMW,
		"irradianceOverride":      p.IrradianceOverride,
		"powerPrice":              p.PowerPrice,
		"exportPrice":             p.ExportPrice,
		"offsetableEnergyCost":    p.OffsetableEnergyCost,
		"landValue":               p.LandValue,
	}
	for _, field := range sortedKeys(nonNegative) {
		if nonNegative[field].IsNegative() {
			return &ValidationError{Field: field, Message: "must not be negative"}
		}
	}

	fractions := map[string]decimal.Decimal{
		"developmentPremiumDiscount": p.DevelopmentPremiumDiscount,
		"landOptionDiscount":         p.LandOptionDiscount,
		"ppaShare":                   p.PPAShare,
		"exportShare":                p.ExportShare,
	}
	for _, field := range sortedKeys(fractions) {
		v := fractions[field]
		if v.IsNegative() || v.GreaterThan(one) {
			return &ValidationError{Field: field, Message: "must be between 0% and 100%"}
		}
	}

	return nil
}
