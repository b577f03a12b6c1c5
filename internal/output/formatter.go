package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rotisserie/eris"
)

// Formatter renders a model result
type Formatter interface {
	Format(result *domain.ModelResult) ([]byte, error)
	Name() string
}

// NormalizeFormatName maps format aliases onto canonical names
func NormalizeFormatName(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "table", "text":
		return "console"
	case "excel", "xls":
		return "xlsx"
	default:
		return f
	}
}

// NewFormatter creates a result formatter based on the format name
func NewFormatter(format string) (Formatter, error) {
	switch NormalizeFormatName(format) {
	case "console":
		return ConsoleFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	case "xlsx":
		return XLSXFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFormatted formats result and writes it to path
func WriteFormatted(f Formatter, result *domain.ModelResult, path string) error {
	data, err := f.Format(result)
	if err != nil {
		return eris.Wrapf(err, "format %s output", f.Name())
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}
