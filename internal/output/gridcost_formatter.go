package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/domain"
)

// FormatGridCost renders a grid connection estimate as console text or JSON.
func FormatGridCost(b *domain.CostBreakdown, format string) (string, error) {
	switch NormalizeFormatName(format) {
	case "console":
		var buf bytes.Buffer
		writeGridCostBreakdown(&buf, b)
		return buf.String(), nil
	case "json":
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported grid cost format: %s", format)
	}
}

func writeGridCostBreakdown(buf *bytes.Buffer, b *domain.CostBreakdown) {
	fmt.Fprintln(buf, TitleStyle.Render("GRID CONNECTION COST"))
	fmt.Fprintf(buf, "Route: %s km agricultural, %s km road, %d joints\n",
		b.AgriculturalKm.StringFixed(2), b.RoadKm.StringFixed(2), b.JointCount)
	fmt.Fprintf(buf, "%-26s %16s %16s\n", "Component", "Min", "Max")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	for _, c := range b.Components() {
		fmt.Fprintf(buf, "%-26s %16s %16s\n", c.Name, FormatWholeCurrency(c.Range.Min), FormatWholeCurrency(c.Range.Max))
	}
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	fmt.Fprintf(buf, "%-26s %16s %16s\n", "Total", FormatWholeCurrency(b.Total.Min), FormatWholeCurrency(b.Total.Max))
	fmt.Fprintf(buf, "%-26s %16s\n", "Midpoint", FormatWholeCurrency(b.Midpoint()))
	for _, f := range b.Fallbacks {
		fmt.Fprintln(buf, SubtitleStyle.Render("  note: "+f))
	}
}
