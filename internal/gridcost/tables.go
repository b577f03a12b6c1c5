package gridcost

import (
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// table is a keyed cost lookup with an explicit default entry.
type table[K comparable] struct {
	name     string
	entries  map[K]domain.CostRange
	fallback K
}

// lookup returns the entry for key, or the default entry with
// fellBack set when key is not tabulated.
func (t table[K]) lookup(key K) (r domain.CostRange, fellBack bool) {
	if r, ok := t.entries[key]; ok {
		return r, false
	}
	return t.entries[t.fallback], true
}

// SurfaceRates is a per-km cable rate for each trench surface.
type SurfaceRates struct {
	Agricultural decimal.Decimal
	Road         decimal.Decimal
}

// LandType selects a wayleave rate band.
type LandType string

const (
	LandAgricultural LandType = "agricultural"
	LandGrassland    LandType = "grassland"
	LandHedgerow     LandType = "hedgerow"
	LandArable       LandType = "arable"
)

func rng(min, max int64) domain.CostRange {
	return domain.CostRange{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

func surface(agricultural, road int64) SurfaceRates {
	return SurfaceRates{Agricultural: decimal.NewFromInt(agricultural), Road: decimal.NewFromInt(road)}
}

// DefaultVoltage is used when a voltage-keyed table has no entry.
const DefaultVoltage = V33k

// Cable cost per km, by cable voltage.
var cableRates = map[Voltage]SurfaceRates{
	V400:  surface(80000, 250000),
	V6k:   surface(120000, 350000),
	V11k:  surface(150000, 400000),
	V33k:  surface(200000, 600000),
	V66k:  surface(300000, 900000),
	V132k: surface(450000, 1200000),
}

// CableRate returns the per-km rates for v, falling back to 33 kV.
func CableRate(v Voltage) (SurfaceRates, bool) {
	if r, ok := cableRates[v]; ok {
		return r, false
	}
	return cableRates[DefaultVoltage], true
}

// Step-up transformers lift the 0.4 kV array output to cable voltage.
var stepUpTransformers = table[Transition]{
	name: "step-up transformer",
	entries: map[Transition]domain.CostRange{
		{V400, V6k}:   rng(150000, 250000),
		{V400, V11k}:  rng(180000, 300000),
		{V400, V33k}:  rng(250000, 400000),
		{V400, V66k}:  rng(350000, 550000),
		{V400, V132k}: rng(500000, 800000),
	},
	fallback: Transition{V400, V33k},
}

// Step-down transformers drop cable voltage to the offtaker's supply.
var stepDownTransformers = table[Transition]{
	name: "step-down transformer",
	entries: map[Transition]domain.CostRange{
		{V6k, V400}:   rng(100000, 180000),
		{V11k, V400}:  rng(120000, 220000),
		{V33k, V400}:  rng(200000, 350000),
		{V33k, V6k6}:  rng(180000, 320000),
		{V33k, V11k}:  rng(250000, 400000),
		{V66k, V11k}:  rng(350000, 550000),
		{V66k, V33k}:  rng(300000, 500000),
		{V132k, V33k}: rng(450000, 750000),
		{V132k, V66k}: rng(400000, 650000),
	},
	fallback: Transition{V33k, V11k},
}

var stepDownInstallation = table[Transition]{
	name: "step-down installation",
	entries: map[Transition]domain.CostRange{
		{V6k, V400}:   rng(50000, 100000),
		{V11k, V400}:  rng(60000, 120000),
		{V33k, V400}:  rng(80000, 150000),
		{V33k, V6k6}:  rng(70000, 130000),
		{V33k, V11k}:  rng(75000, 140000),
		{V66k, V11k}:  rng(100000, 180000),
		{V66k, V33k}:  rng(90000, 160000),
		{V132k, V33k}: rng(120000, 220000),
		{V132k, V66k}: rng(110000, 200000),
	},
	fallback: Transition{V33k, V11k},
}

// Per joint bay, one every 500 m of cable.
var jointBays = table[Voltage]{
	name: "joint bay",
	entries: map[Voltage]domain.CostRange{
		V400:  rng(15000, 25000),
		V6k:   rng(20000, 35000),
		V11k:  rng(25000, 40000),
		V33k:  rng(30000, 50000),
		V66k:  rng(40000, 65000),
		V132k: rng(50000, 80000),
	},
	fallback: DefaultVoltage,
}

// Per directional-drill road crossing.
var roadCrossings = table[Voltage]{
	name: "road crossing",
	entries: map[Voltage]domain.CostRange{
		V400:  rng(80000, 150000),
		V6k:   rng(100000, 180000),
		V11k:  rng(120000, 220000),
		V33k:  rng(150000, 300000),
		V66k:  rng(200000, 400000),
		V132k: rng(300000, 600000),
	},
	fallback: DefaultVoltage,
}

// Per transformer, at either end of the cable.
var terminations = table[Voltage]{
	name: "termination",
	entries: map[Voltage]domain.CostRange{
		V400:  rng(20000, 40000),
		V6k:   rng(30000, 60000),
		V11k:  rng(40000, 80000),
		V33k:  rng(60000, 120000),
		V66k:  rng(80000, 160000),
		V132k: rng(120000, 240000),
	},
	fallback: DefaultVoltage,
}

// Per step-down unit at the offtaker site.
var hvTerminations = table[Voltage]{
	name: "HV termination",
	entries: map[Voltage]domain.CostRange{
		V6k:   rng(15000, 35000),
		V11k:  rng(20000, 50000),
		V33k:  rng(35000, 80000),
		V66k:  rng(60000, 120000),
		V132k: rng(100000, 200000),
	},
	fallback: DefaultVoltage,
}

// WayleaveRates is the annual payment per km by land type.
var WayleaveRates = map[LandType]domain.CostRange{
	LandAgricultural: rng(150, 300),
	LandGrassland:    rng(100, 200),
	LandHedgerow:     rng(50, 150),
	LandArable:       rng(200, 400),
}

// LandRights lists the fixed, voltage independent land costs.
var LandRights = []domain.CostComponent{
	{Name: "Compensation", Range: rng(20000, 60000)},
	{Name: "Legal", Range: rng(50000, 90000)},
	{Name: "Planning", Range: rng(600, 1200)},
	{Name: "Surveys", Range: rng(15000, 40000)},
}

// DefaultRoadLayingCostPerKm is the one-off road cable laying rate.
var DefaultRoadLayingCostPerKm = decimal.NewFromInt(150000)

// JointSpacingMetres is the cable length served by one joint bay.
const JointSpacingMetres = 500
