package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(matrix *domain.SensitivityMatrix) (string, error)
	Name() string
}

const heatmapCellWidth = 10

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(matrix *domain.SensitivityMatrix) (string, error) {
	if err := checkMatrix(matrix); err != nil {
		return "", err
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, TitleStyle.Render("GRID CONNECTION SENSITIVITY"))
	fmt.Fprintln(&buf, strings.Repeat("=", 65))
	fmt.Fprintf(&buf, "%d distances x %d voltages\n\n", len(matrix.Distances), len(matrix.Voltages))

	fmt.Fprintln(&buf, TitleStyle.Render("LCOE (£/MWh)"))
	scf.writeHeatmap(&buf, matrix, matrix.LCOEBounds, false, func(c domain.SensitivityCell) (string, bool) {
		return c.LCOE.StringFixed(2), true
	}, func(c domain.SensitivityCell) decimal.Decimal { return c.LCOE })
	fmt.Fprintf(&buf, "Range: %s to %s\n\n", matrix.LCOEBounds.Min.StringFixed(2), matrix.LCOEBounds.Max.StringFixed(2))

	fmt.Fprintln(&buf, TitleStyle.Render("IRR (%)"))
	scf.writeHeatmap(&buf, matrix, matrix.IRRBounds, true, func(c domain.SensitivityCell) (string, bool) {
		switch c.IRRStatus {
		case domain.RateConverged:
			return c.IRR.Mul(decimal.NewFromInt(100)).StringFixed(2), true
		case domain.RateUnconverged:
			return "~" + c.IRR.Mul(decimal.NewFromInt(100)).StringFixed(2), false
		default:
			return "n/a", false
		}
	}, func(c domain.SensitivityCell) decimal.Decimal { return c.IRR })
	if matrix.IRRBounds.Valid {
		fmt.Fprintf(&buf, "Range: %s to %s\n", FormatPercentage(matrix.IRRBounds.Min), FormatPercentage(matrix.IRRBounds.Max))
	} else {
		fmt.Fprintln(&buf, "Range: no cell produced a converged IRR")
	}

	if current, ok := matrix.CurrentCell(); ok {
		fmt.Fprintln(&buf, SubtitleStyle.Render(fmt.Sprintf("[ ] current route, nearest to %s kV at %s km", current.VoltageKV, current.DistanceKm)))
	}
	if hasFallback(matrix) {
		fmt.Fprintln(&buf, SubtitleStyle.Render("* cable rate for this voltage unavailable, 33 kV rate used"))
	}

	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) writeHeatmap(
	buf *bytes.Buffer,
	matrix *domain.SensitivityMatrix,
	bounds domain.MetricBounds,
	invert bool,
	label func(domain.SensitivityCell) (string, bool),
	value func(domain.SensitivityCell) decimal.Decimal,
) {
	fmt.Fprintf(buf, "%-8s", "km \\ kV")
	for _, v := range matrix.Voltages {
		fmt.Fprintf(buf, " %*s", heatmapCellWidth, v.String())
	}
	fmt.Fprintln(buf)

	for i, d := range matrix.Distances {
		fmt.Fprintf(buf, "%-8s", d.String())
		for _, cell := range matrix.Cells[i] {
			text, colored := label(cell)
			if cell.Fallback {
				text += "*"
			}
			if cell.Current {
				text = "[" + text + "]"
			}
			if colored && bounds.Valid {
				text = heatmapCell(text, HeatmapColor(value(cell), bounds.Min, bounds.Max, invert), heatmapCellWidth)
			} else {
				text = fmt.Sprintf("%*s", heatmapCellWidth, text)
			}
			fmt.Fprintf(buf, " %s", text)
		}
		fmt.Fprintln(buf)
	}
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(matrix *domain.SensitivityMatrix) (string, error) {
	if err := checkMatrix(matrix); err != nil {
		return "", err
	}
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "distance_km,voltage_kv,grid_cost,lcoe,irr,irr_status,fallback,current\n")
	for _, row := range matrix.Cells {
		for _, c := range row {
			fmt.Fprintf(&buf, "%s,%s,%s,%s,%s,%s,%t,%t\n",
				c.DistanceKm.String(),
				c.VoltageKV.String(),
				c.GridCost.StringFixed(2),
				c.LCOE.StringFixed(4),
				c.IRR.StringFixed(6),
				c.IRRStatus,
				c.Fallback,
				c.Current)
		}
	}

	return buf.String(), nil
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(matrix *domain.SensitivityMatrix) (string, error) {
	if err := checkMatrix(matrix); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(matrix, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) (SensitivityFormatter, error) {
	switch NormalizeFormatName(format) {
	case "console":
		return SensitivityConsoleFormatter{}, nil
	case "csv":
		return SensitivityCSVFormatter{}, nil
	case "json":
		return SensitivityJSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported sensitivity format: %s", format)
	}
}

func checkMatrix(matrix *domain.SensitivityMatrix) error {
	if matrix == nil || len(matrix.Cells) == 0 {
		return fmt.Errorf("no cells in sensitivity matrix")
	}
	return nil
}

func hasFallback(matrix *domain.SensitivityMatrix) bool {
	for _, row := range matrix.Cells {
		for _, c := range row {
			if c.Fallback {
				return true
			}
		}
	}
	return false
}
