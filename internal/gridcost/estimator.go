package gridcost

import (
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// Estimate prices a grid connection route component by component.
// Unknown voltage keys fall back to the documented default entry and
// are listed in the breakdown's Fallbacks.
func Estimate(route domain.RouteParameters) (*domain.CostBreakdown, error) {
	if err := route.Validate(); err != nil {
		return nil, fmt.Errorf("grid cost estimate: %w", err)
	}

	e := estimation{route: route}
	return e.run(), nil
}

type estimation struct {
	route     domain.RouteParameters
	fallbacks []string
}

func (e *estimation) note(what string, key, used fmt.Stringer) {
	e.fallbacks = append(e.fallbacks, fmt.Sprintf("%s: no rate for %s, used %s", what, key, used))
}

func lookupNoted[K interface {
	comparable
	fmt.Stringer
}](e *estimation, t table[K], key K, used bool) domain.CostRange {
	r, fellBack := t.lookup(key)
	if fellBack && used {
		e.note(t.name, key, t.fallback)
	}
	return r
}

func (e *estimation) run() *domain.CostBreakdown {
	r := e.route
	one := decimal.NewFromInt(1)

	cable, _ := ParseVoltage(r.CableVoltageKV)
	target := V11k
	if r.StepDownTargetKV.GreaterThan(decimal.Zero) {
		target, _ = ParseVoltage(r.StepDownTargetKV)
	}

	b := &domain.CostBreakdown{
		AgriculturalKm: r.DistanceKm.Mul(one.Sub(r.RoadFraction)),
		RoadKm:         r.DistanceKm.Mul(r.RoadFraction),
	}

	rates, fellBack := CableRate(cable)
	if fellBack {
		e.note("cable", cable, DefaultVoltage)
	}
	b.Cable = domain.Fixed(b.AgriculturalKm.Mul(rates.Agricultural).Add(b.RoadKm.Mul(rates.Road)))

	upUnits := decimal.NewFromInt(int64(r.StepUpUnits))
	downUnits := decimal.NewFromInt(int64(r.StepDownUnits))

	b.StepUpTransformers = lookupNoted(e, stepUpTransformers, Transition{V400, cable}, r.StepUpUnits > 0).Mul(upUnits)

	stepDown := Transition{cable, target}
	b.StepDownTransformers = lookupNoted(e, stepDownTransformers, stepDown, r.StepDownUnits > 0).Mul(downUnits)

	if r.IncludeStepDownInstallation {
		b.StepDownInstallation = lookupNoted(e, stepDownInstallation, stepDown, r.StepDownUnits > 0).Mul(downUnits)
	} else {
		b.StepDownInstallation = domain.Fixed(decimal.Zero)
	}

	metres := r.DistanceKm.Mul(decimal.NewFromInt(1000))
	b.JointCount = int(metres.Div(decimal.NewFromInt(JointSpacingMetres)).Ceil().IntPart())
	b.JointBays = lookupNoted(e, jointBays, cable, b.JointCount > 0).Mul(decimal.NewFromInt(int64(b.JointCount)))

	b.RoadCrossings = lookupNoted(e, roadCrossings, cable, r.RoadCrossings > 0).
		Mul(decimal.NewFromInt(int64(r.RoadCrossings)))

	ends := r.StepUpUnits + r.StepDownUnits
	b.Terminations = lookupNoted(e, terminations, cable, ends > 0).Mul(decimal.NewFromInt(int64(ends)))

	b.HVTerminations = lookupNoted(e, hvTerminations, cable, r.StepDownUnits > 0).Mul(downUnits)

	b.Wayleaves = wayleaves(r, b.AgriculturalKm, b.RoadKm)

	b.LandRights = domain.Fixed(decimal.Zero)
	for _, c := range LandRights {
		b.LandRights = b.LandRights.Add(c.Range)
	}

	b.RoadLaying = domain.Fixed(b.RoadKm.Mul(r.RoadLayingCostPerKm))

	b.Total = domain.Fixed(decimal.Zero)
	for _, c := range b.Components() {
		b.Total = b.Total.Add(c.Range)
	}

	b.Fallbacks = e.fallbacks
	return b
}

// wayleaves prices the annual land-access payments over the wayleave
// term. The minimum uses the agricultural length at the agricultural
// minimum rate; the maximum uses the road length at the arable maximum
// rate. The two bounds deliberately use different distance bases.
func wayleaves(r domain.RouteParameters, agriculturalKm, roadKm decimal.Decimal) domain.CostRange {
	years := decimal.NewFromInt(int64(r.WayleaveYears))
	factor := decimal.NewFromInt(1).Sub(r.WayleaveDiscount)
	return domain.CostRange{
		Min: agriculturalKm.Mul(WayleaveRates[LandAgricultural].Min).Mul(years).Mul(factor),
		Max: roadKm.Mul(WayleaveRates[LandArable].Max).Mul(years).Mul(factor),
	}
}
