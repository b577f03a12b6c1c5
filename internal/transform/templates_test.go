package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry_GetIsCaseInsensitive(t *testing.T) {
	registry := CreateBuiltInTemplates()

	tmpl, ok := registry.Get("Tariff_Down_10")
	require.True(t, ok)
	assert.Equal(t, "tariff_down_10", tmpl.Name)

	_, ok = registry.Get("nope")
	assert.False(t, ok)
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestScenario()

	for _, name := range registry.List() {
		t.Run(name, func(t *testing.T) {
			tmpl, _ := registry.Get(name)
			assert.NotEmpty(t, tmpl.Description)

			result, err := ApplyTemplate(base, tmpl)
			require.NoError(t, err)
			assert.NoError(t, result.Parameters.Validate())
		})
	}
}

func TestApplyTemplate_Downside(t *testing.T) {
	tmpl, _ := CreateBuiltInTemplates().Get("downside")
	base := createTestScenario()

	result, err := ApplyTemplate(base, tmpl)
	require.NoError(t, err)
	assert.True(t, result.Parameters.PowerPrice.Equal(dec("99")))
	assert.True(t, result.Parameters.CapexPerMW.Equal(base.Parameters.CapexPerMW.Mul(dec("1.1"))))
}

func TestApplyTemplate_Empty(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTemplate(base, Template{Name: "noop"})
	require.NoError(t, err)
	assert.NotSame(t, base, result)
}

func TestParseTemplateList(t *testing.T) {
	assert.Nil(t, ParseTemplateList(""))
	assert.Equal(t, []string{"a", "b"}, ParseTemplateList(" a, ,b "))
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())
	assert.Contains(t, help, "Available Templates:")
	assert.Contains(t, help, "capex_up_10")
	assert.Contains(t, help, "pvfin compare")

	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))
}
