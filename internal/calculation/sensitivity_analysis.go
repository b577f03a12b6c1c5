package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/gridcost"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultSweepWorkers bounds concurrent cell evaluations.
const DefaultSweepWorkers = 4

// DefaultSweepVoltages is the fixed voltage axis of the sensitivity grid (kV).
func DefaultSweepVoltages() []decimal.Decimal {
	return decimals(6, 10, 20, 33, 66, 132)
}

// DefaultSweepDistances is the fixed distance axis of the sensitivity grid (km).
func DefaultSweepDistances() []decimal.Decimal {
	return decimals(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
}

func decimals(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

// coarseCablePerKm is the simplified cable rate by voltage used only by
// the sensitivity sweep.
var coarseCablePerKm = map[gridcost.Voltage]decimal.Decimal{
	gridcost.V6k:   decimal.NewFromInt(150000),
	gridcost.V10k:  decimal.NewFromInt(180000),
	gridcost.V20k:  decimal.NewFromInt(220000),
	gridcost.V33k:  decimal.NewFromInt(280000),
	gridcost.V66k:  decimal.NewFromInt(380000),
	gridcost.V132k: decimal.NewFromInt(520000),
}

// CoarseCost is the simplified grid cost of one sweep cell.
type CoarseCost struct {
	Cable           decimal.Decimal `json:"cable"`
	Transformer     decimal.Decimal `json:"transformer"`
	WayleaveCapital decimal.Decimal `json:"wayleaveCapital"`
	RoadLaying      decimal.Decimal `json:"roadLaying"`
	SoftCosts       decimal.Decimal `json:"softCosts"`
	Total           decimal.Decimal `json:"total"`
	Fallback        bool            `json:"fallback"`
}

// CoarseGridCost prices a connection from voltage and distance alone.
// It is intentionally cruder than the route estimator.
func CoarseGridCost(voltageKV, distanceKm decimal.Decimal) CoarseCost {
	var c CoarseCost

	v, _ := gridcost.ParseVoltage(voltageKV)
	rate, ok := coarseCablePerKm[v]
	if !ok {
		rate = coarseCablePerKm[gridcost.DefaultVoltage]
		c.Fallback = true
	}

	c.Cable = rate.Mul(distanceKm)
	c.Transformer = decimal.NewFromInt(50000).Add(voltageKV.Mul(decimal.NewFromInt(500)))
	c.WayleaveCapital = decimal.NewFromInt(2000).Mul(distanceKm).Mul(decimal.NewFromInt(20))
	c.RoadLaying = decimal.NewFromInt(80000).Mul(distanceKm).Mul(decimal.NewFromFloat(0.3))
	c.SoftCosts = c.Cable.Add(c.Transformer).Mul(decimal.NewFromFloat(0.15))
	c.Total = c.Cable.Add(c.Transformer).Add(c.WayleaveCapital).Add(c.RoadLaying).Add(c.SoftCosts)
	return c
}

// SensitivityAnalyzer sweeps the model over a voltage x distance grid.
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
	Workers           int
}

// NewSensitivityAnalyzer creates an analyzer backed by engine, or a
// default engine when engine is nil.
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{
		calculationEngine: engine,
		Workers:           DefaultSweepWorkers,
	}
}

// Sweep evaluates baseline over the fixed default grid.
func (sa *SensitivityAnalyzer) Sweep(ctx context.Context, baseline domain.ModelParameters) (*domain.SensitivityMatrix, error) {
	return sa.SweepGrid(ctx, baseline, DefaultSweepVoltages(), DefaultSweepDistances())
}

// SweepGrid evaluates baseline at every (distance, voltage) pair. Each
// cell replaces the grid cost with the coarse estimate and clears any
// manual override. Cells run concurrently up to Workers at a time. The
// cell nearest the baseline's route tags is flagged Current.
func (sa *SensitivityAnalyzer) SweepGrid(ctx context.Context, baseline domain.ModelParameters, voltages, distances []decimal.Decimal) (*domain.SensitivityMatrix, error) {
	if len(voltages) == 0 || len(distances) == 0 {
		return nil, &CalculationError{Operation: "sensitivity_sweep", Message: "voltage and distance axes must not be empty"}
	}
	if err := baseline.Validate(); err != nil {
		return nil, &CalculationError{Operation: "sensitivity_sweep", Message: "invalid baseline", Cause: err}
	}

	cells := make([][]domain.SensitivityCell, len(distances))
	for i := range cells {
		cells[i] = make([]domain.SensitivityCell, len(voltages))
	}

	workers := sa.Workers
	if workers <= 0 {
		workers = DefaultSweepWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range distances {
		for j, v := range voltages {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				cell, err := sa.evaluateCell(baseline, v, d)
				if err != nil {
					return fmt.Errorf("cell %s kV, %s km: %w", v, d, err)
				}
				cells[i][j] = cell
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if row, col, ok := currentIndex(voltages, distances, baseline.CableVoltageKV, baseline.DistanceKm); ok {
		cells[row][col].Current = true
	}

	matrix := &domain.SensitivityMatrix{
		Voltages:  voltages,
		Distances: distances,
		Cells:     cells,
	}
	for _, row := range cells {
		for _, cell := range row {
			matrix.LCOEBounds.Include(cell.LCOE)
			if cell.IRRStatus == domain.RateConverged {
				matrix.IRRBounds.Include(cell.IRR)
			}
		}
	}

	sa.calculationEngine.logger().Infof("sensitivity sweep complete: %d x %d cells, LCOE %s to %s",
		len(distances), len(voltages), matrix.LCOEBounds.Min.StringFixed(2), matrix.LCOEBounds.Max.StringFixed(2))
	return matrix, nil
}

func (sa *SensitivityAnalyzer) evaluateCell(baseline domain.ModelParameters, voltageKV, distanceKm decimal.Decimal) (domain.SensitivityCell, error) {
	cost := CoarseGridCost(voltageKV, distanceKm)
	if cost.Fallback {
		sa.calculationEngine.logger().Warnf("coarse grid cost: no cable rate for %s kV, used %s", voltageKV, gridcost.DefaultVoltage)
	}

	p := baseline
	p.GridConnectionCost = cost.Total
	p.GridCostOverrideEnabled = false
	p.CableVoltageKV = voltageKV
	p.DistanceKm = distanceKm

	result, err := sa.calculationEngine.RunWithGridCost(p, cost.Total)
	if err != nil {
		return domain.SensitivityCell{}, err
	}

	return domain.SensitivityCell{
		VoltageKV:  voltageKV,
		DistanceKm: distanceKm,
		GridCost:   cost.Total,
		LCOE:       result.Summary.LCOE,
		IRR:        result.Summary.IRR,
		IRRStatus:  result.Summary.IRRStatus,
		Fallback:   cost.Fallback,
	}, nil
}

// currentIndex places a route on the sweep axes: the exact voltage, else
// the default voltage, and the nearest distance (first on a tie). ok is
// false when the route is untagged or neither voltage is on the axis.
func currentIndex(voltages, distances []decimal.Decimal, voltageKV, distanceKm decimal.Decimal) (row, col int, ok bool) {
	if !voltageKV.IsPositive() || !distanceKm.IsPositive() {
		return 0, 0, false
	}
	col = indexOf(voltages, voltageKV)
	if col < 0 {
		col = indexOf(voltages, gridcost.DefaultVoltage.KV())
	}
	if col < 0 {
		return 0, 0, false
	}

	best := distances[0].Sub(distanceKm).Abs()
	for i := 1; i < len(distances); i++ {
		if diff := distances[i].Sub(distanceKm).Abs(); diff.LessThan(best) {
			row, best = i, diff
		}
	}
	return row, col, true
}

func indexOf(axis []decimal.Decimal, v decimal.Decimal) int {
	for i, a := range axis {
		if a.Equal(v) {
			return i
		}
	}
	return -1
}
