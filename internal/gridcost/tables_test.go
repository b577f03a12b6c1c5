package gridcost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVoltage(t *testing.T) {
	tests := []struct {
		kv   string
		want Voltage
		ok   bool
	}{
		{"0.4", V400, true},
		{"6.6", V6k6, true},
		{"33", V33k, true},
		{"132", V132k, true},
		{"25", Voltage(25000), false},
	}

	for _, tt := range tests {
		got, ok := ParseVoltage(dec(tt.kv))
		assert.Equal(t, tt.want, got, "kv %s", tt.kv)
		assert.Equal(t, tt.ok, ok, "kv %s", tt.kv)
	}
}

func TestVoltageAndTransitionStrings(t *testing.T) {
	assert.Equal(t, "0.4 kV", V400.String())
	assert.Equal(t, "33 kV", V33k.String())
	assert.Equal(t, "0.4/33", Transition{V400, V33k}.String())
}

func TestTableLookupFallback(t *testing.T) {
	r, fellBack := jointBays.lookup(V66k)
	assert.False(t, fellBack)
	assertRange(t, "40000", "65000", r, "66 kV joint bay")

	r, fellBack = jointBays.lookup(V20k)
	assert.True(t, fellBack, "20 kV is not tabulated")
	assertRange(t, "30000", "50000", r, "default joint bay")

	_, fellBack = stepUpTransformers.lookup(Transition{V400, V400})
	assert.True(t, fellBack)
}

func TestEveryFallbackEntryExists(t *testing.T) {
	_, ok := cableRates[DefaultVoltage]
	assert.True(t, ok, "cable default")
	for _, tbl := range []table[Voltage]{jointBays, roadCrossings, terminations, hvTerminations} {
		_, ok := tbl.entries[tbl.fallback]
		assert.True(t, ok, "%s default entry", tbl.name)
	}
	for _, tbl := range []table[Transition]{stepUpTransformers, stepDownTransformers, stepDownInstallation} {
		_, ok := tbl.entries[tbl.fallback]
		assert.True(t, ok, "%s default entry", tbl.name)
	}
}

func TestSources(t *testing.T) {
	all := Sources()
	assert.Len(t, all, 12)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID, "sources should be sorted by id")
	}

	for table, id := range TableSources {
		_, ok := LookupSource(id)
		assert.True(t, ok, "table %s cites unknown source %s", table, id)
	}

	_, ok := LookupSource("missing")
	assert.False(t, ok)
}
