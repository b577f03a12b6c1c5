package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityCell is one (distance, voltage) evaluation of the model.
type SensitivityCell struct {
	VoltageKV  decimal.Decimal `json:"voltageKV"`
	DistanceKm decimal.Decimal `json:"distanceKm"`
	GridCost   decimal.Decimal `json:"gridCost"`
	LCOE       decimal.Decimal `json:"lcoe"`
	IRR        decimal.Decimal `json:"irr"`
	IRRStatus  RateStatus      `json:"irrStatus"`
	Fallback   bool            `json:"fallback,omitempty"` // coarse cost used the default voltage rate
	Current    bool            `json:"current,omitempty"`  // nearest cell to the scenario's own route
}

// MetricBounds holds the extremes of one metric across the grid.
// Valid is false when no cell contributed.
type MetricBounds struct {
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
	Valid bool            `json:"valid"`
}

// Include widens the bounds to cover v.
func (b *MetricBounds) Include(v decimal.Decimal) {
	if !b.Valid {
		b.Min, b.Max, b.Valid = v, v, true
		return
	}
	if v.LessThan(b.Min) {
		b.Min = v
	}
	if v.GreaterThan(b.Max) {
		b.Max = v
	}
}

// SensitivityMatrix is a voltage x distance grid of model results.
// Cells[i][j] is Distances[i] with Voltages[j].
type SensitivityMatrix struct {
	Voltages   []decimal.Decimal   `json:"voltages"`
	Distances  []decimal.Decimal   `json:"distances"`
	Cells      [][]SensitivityCell `json:"cells"`
	LCOEBounds MetricBounds        `json:"lcoeBounds"`
	IRRBounds  MetricBounds        `json:"irrBounds"`
}

// CurrentCell returns the cell flagged as the scenario's own route.
func (m *SensitivityMatrix) CurrentCell() (SensitivityCell, bool) {
	for _, row := range m.Cells {
		for _, cell := range row {
			if cell.Current {
				return cell, true
			}
		}
	}
	return SensitivityCell{}, false
}
