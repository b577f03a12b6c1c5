package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:       "Test Site",
		Parameters: domain.DefaultModelParameters(),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyTransforms_NilScenario(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&ScaleTariff{Percent: dec("10")}})
	assert.Error(t, err)
}

func TestApplyTransforms_EmptyReturnsCopy(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.NotSame(t, base, result)
	assert.Equal(t, base.Name, result.Name)
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{nil})
	assert.ErrorContains(t, err, "index 0 is nil")
}

func TestApplyTransforms_Chained(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, []ScenarioTransform{
		&ScaleTariff{Percent: dec("10")},
		&ScaleTariff{Percent: dec("-50")},
		&SetProjectLife{Years: 20},
	})
	require.NoError(t, err)

	assert.True(t, result.Parameters.PowerPrice.Equal(dec("60.5")), result.Parameters.PowerPrice.String())
	assert.Equal(t, 20, result.Parameters.ProjectLife)
	assert.True(t, base.Parameters.PowerPrice.Equal(dec("110")), "base is untouched")
	assert.Equal(t, 15, base.Parameters.ProjectLife)
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{&SetProjectLife{Years: 0}})
	require.Error(t, err)

	var te *TransformError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "set_project_life", te.TransformName)
	assert.Equal(t, "validate", te.Operation)
}

func TestScaleTransforms(t *testing.T) {
	base := createTestScenario()

	capex, err := (&ScaleCapex{Percent: dec("-10")}).Apply(base)
	require.NoError(t, err)
	assert.True(t, capex.Parameters.CapexPerMW.Equal(base.Parameters.CapexPerMW.Mul(dec("0.9"))))

	base.Parameters.IrradianceOverride = dec("1000")
	gen, err := (&ScaleGeneration{Percent: dec("-5")}).Apply(base)
	require.NoError(t, err)
	assert.True(t, gen.Parameters.GenerationPerMW.Equal(base.Parameters.GenerationPerMW.Mul(dec("0.95"))))
	assert.True(t, gen.Parameters.IrradianceOverride.Equal(dec("950")))

	assert.Error(t, (&ScaleTariff{Percent: dec("-101")}).Validate(base))
	assert.NoError(t, (&ScaleTariff{Percent: dec("-100")}).Validate(base))
	assert.Error(t, (&ScaleCapex{Percent: dec("5")}).Validate(nil))
}

func TestSetDiscountRate(t *testing.T) {
	tr := &SetDiscountRate{Rate: dec("0.08")}
	assert.Equal(t, "Set discount rate to 8.0%", tr.Description())

	result, err := tr.Apply(createTestScenario())
	require.NoError(t, err)
	assert.True(t, result.Parameters.DiscountRate.Equal(dec("0.08")))

	assert.Error(t, (&SetDiscountRate{Rate: dec("-1")}).Validate(createTestScenario()))
}

func TestSetGridCost(t *testing.T) {
	result, err := (&SetGridCost{Amount: dec("750000")}).Apply(createTestScenario())
	require.NoError(t, err)
	assert.True(t, result.Parameters.GridCostOverrideEnabled)
	assert.True(t, result.Parameters.GridCostOverride.Equal(dec("750000")))

	assert.Error(t, (&SetGridCost{Amount: dec("-1")}).Validate(createTestScenario()))
}

func TestSetRoute(t *testing.T) {
	base := createTestScenario()

	result, err := (&SetRoute{VoltageKV: dec("66")}).Apply(base)
	require.NoError(t, err)
	require.NotNil(t, result.Route)
	assert.True(t, result.UseGridEstimate)
	assert.True(t, result.Route.CableVoltageKV.Equal(dec("66")))
	assert.True(t, result.Route.DistanceKm.Equal(dec("5")), "distance keeps the default")
	assert.Nil(t, base.Route)

	moved, err := (&SetRoute{DistanceKm: dec("12")}).Apply(result)
	require.NoError(t, err)
	assert.True(t, moved.Route.CableVoltageKV.Equal(dec("66")))
	assert.True(t, moved.Route.DistanceKm.Equal(dec("12")))
	assert.True(t, result.Route.DistanceKm.Equal(dec("5")), "input route is not shared")

	assert.Error(t, (&SetRoute{}).Validate(base))
	assert.Error(t, (&SetRoute{DistanceKm: dec("-1")}).Validate(base))
	assert.Equal(t, "Connect at 66 kV over 8 km", (&SetRoute{VoltageKV: dec("66"), DistanceKm: dec("8")}).Description())
}

func TestSetLandOption(t *testing.T) {
	base := createTestScenario()
	base.Parameters.LandOptionEnabled = true

	result, err := (&SetLandOption{Enabled: false}).Apply(base)
	require.NoError(t, err)
	assert.False(t, result.Parameters.LandOptionEnabled)
	assert.Equal(t, "Disable land option payments", (&SetLandOption{}).Description())
}

func TestDescriptions(t *testing.T) {
	assert.Equal(t, "Change power price by +10%", (&ScaleTariff{Percent: dec("10")}).Description())
	assert.Equal(t, "Change capex per MW by -7.5%", (&ScaleCapex{Percent: dec("-7.5")}).Description())
	assert.Equal(t, "Set project life to 25 years", (&SetProjectLife{Years: 25}).Description())
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec string
		want ScenarioTransform
	}{
		{"scale_tariff:percent=10", &ScaleTariff{Percent: dec("10")}},
		{"scale_capex:percent=-5", &ScaleCapex{Percent: dec("-5")}},
		{"scale_generation:percent=-2.5", &ScaleGeneration{Percent: dec("-2.5")}},
		{"set_discount_rate:rate=8", &SetDiscountRate{Rate: dec("0.08")}},
		{"set_project_life:years=25", &SetProjectLife{Years: 25}},
		{"set_grid_cost:amount=1200000", &SetGridCost{Amount: dec("1200000")}},
		{"set_route: voltage=66 , distance=8", &SetRoute{VoltageKV: dec("66"), DistanceKm: dec("8")}},
		{"set_land_option:enabled=false", &SetLandOption{Enabled: false}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := registry.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name(), got.Name())
			assert.Equal(t, tt.want.Description(), got.Description())
		})
	}
}

func TestTransformRegistry_Errors(t *testing.T) {
	registry := NewTransformRegistry()

	for _, spec := range []string{
		"scale_tariff",
		"scale_tariff:percent",
		"scale_tariff:",
		"scale_tariff:percent=abc",
		"set_project_life:years=ten",
		"set_land_option:enabled=maybe",
		"unknown:x=1",
	} {
		_, err := registry.ParseTransformSpec(spec)
		assert.Error(t, err, spec)
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Len(t, names, 8)
	assert.Equal(t, "scale_capex", names[0], "sorted")
}
