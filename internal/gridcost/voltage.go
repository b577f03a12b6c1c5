package gridcost

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Voltage is a nominal network voltage in volts.
type Voltage int

const (
	V400  Voltage = 400
	V6k   Voltage = 6000
	V6k6  Voltage = 6600
	V10k  Voltage = 10000
	V11k  Voltage = 11000
	V20k  Voltage = 20000
	V33k  Voltage = 33000
	V66k  Voltage = 66000
	V132k Voltage = 132000
)

var knownVoltages = []Voltage{V400, V6k, V6k6, V10k, V11k, V20k, V33k, V66k, V132k}

// ParseVoltage maps a kV figure onto the enumeration. ok is false for
// values that are not a standard network voltage; v is then the
// nearest-volt conversion and will miss every table.
func ParseVoltage(kv decimal.Decimal) (v Voltage, ok bool) {
	v = Voltage(kv.Mul(decimal.NewFromInt(1000)).Round(0).IntPart())
	for _, known := range knownVoltages {
		if v == known {
			return v, true
		}
	}
	return v, false
}

// KV returns the voltage in kilovolts.
func (v Voltage) KV() decimal.Decimal {
	return decimal.NewFromInt(int64(v)).Div(decimal.NewFromInt(1000))
}

func (v Voltage) String() string {
	return v.KV().String() + " kV"
}

// Transition keys a transformer table by its primary and secondary voltage.
type Transition struct {
	From Voltage
	To   Voltage
}

func (t Transition) String() string {
	return fmt.Sprintf("%s/%s", t.From.KV(), t.To.KV())
}
