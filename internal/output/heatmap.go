package output

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RGB is a heatmap cell colour.
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the colour in CSS rgb() notation.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Color converts to a lipgloss colour.
func (c RGB) Color() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// HeatmapColor maps value within [min, max] onto a green, yellow,
// orange, red scale. With invert set, high values are green.
func HeatmapColor(value, min, max decimal.Decimal, invert bool) RGB {
	normalized := 0.0
	if span := max.Sub(min); span.IsPositive() {
		normalized = value.Sub(min).Div(span).InexactFloat64()
	}
	normalized = math.Min(math.Max(normalized, 0), 1)
	if invert {
		normalized = 1 - normalized
	}

	switch {
	case normalized < 0.33:
		t := normalized / 0.33
		return RGB{R: channel(255 * t), G: 255}
	case normalized < 0.67:
		t := (normalized - 0.33) / 0.34
		return RGB{R: 255, G: channel(255 - 55*t)}
	default:
		t := (normalized - 0.67) / 0.33
		return RGB{R: 255, G: channel(200 - 200*t)}
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 255)))
}
