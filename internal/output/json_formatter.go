package output

import (
	"encoding/json"

	"github.com/rgehrsitz/pvfin/internal/domain"
)

// JSONFormatter renders a model result as indented JSON
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.ModelResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
