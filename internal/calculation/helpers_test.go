package calculation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestLogger collects formatted messages by level.
type TestLogger struct {
	mu       sync.Mutex
	Debugs   []string
	Infos    []string
	Warnings []string
	Errors   []string
}

func (l *TestLogger) Debugf(format string, args ...any) { l.add(&l.Debugs, format, args) }
func (l *TestLogger) Infof(format string, args ...any)  { l.add(&l.Infos, format, args) }
func (l *TestLogger) Warnf(format string, args ...any)  { l.add(&l.Warnings, format, args) }
func (l *TestLogger) Errorf(format string, args ...any) { l.add(&l.Errors, format, args) }

func (l *TestLogger) add(dst *[]string, format string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// referenceParameters is the spreadsheet reference model: 28 MW,
// premium on, land option off.
func referenceParameters() domain.ModelParameters {
	p := domain.DefaultModelParameters()
	p.CapexPerMW = dec("437589.69")
	p.LandOptionEnabled = false
	return p
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "%s: expected %s, got %s", msg, expected, actual)
}

func assertDecimalNear(t *testing.T, expected string, actual decimal.Decimal, tolerance string, msg string) {
	t.Helper()
	diff := dec(expected).Sub(actual).Abs()
	assert.True(t, diff.LessThanOrEqual(dec(tolerance)), "%s: expected %s ± %s, got %s", msg, expected, tolerance, actual)
}
