package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/gridcost"
)

// FormatSources renders the cost-source registry as console text or JSON.
func FormatSources(sources []gridcost.Source, format string) (string, error) {
	switch NormalizeFormatName(format) {
	case "console":
		var buf bytes.Buffer
		fmt.Fprintln(&buf, TitleStyle.Render("COST DATA SOURCES"))
		for _, s := range sources {
			fmt.Fprintf(&buf, "\n%s [%s]\n", s.Title, s.ID)
			fmt.Fprintf(&buf, "  %s, %d (confidence: %s)\n", s.Organization, s.Year, s.Confidence)
			if s.Description != "" {
				fmt.Fprintf(&buf, "  %s\n", s.Description)
			}
			if s.Link != "" {
				fmt.Fprintf(&buf, "  %s\n", SubtitleStyle.Render(s.Link))
			}
		}
		return buf.String(), nil
	case "json":
		data, err := json.MarshalIndent(sources, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported sources format: %s", format)
	}
}
