package calculation

import (
	"testing"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_ReferenceScenario(t *testing.T) {
	p := referenceParameters()

	years, err := Project(p, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, years, 16, "years 0..15")

	y0 := years[0]
	assertDecimalEqual(t, "20052511.32", y0.Capex, "total capex")
	assertDecimalEqual(t, "-20052511.32", y0.CashFlow, "year 0 cash flow")
	assertDecimalEqual(t, "1", y0.DiscountFactor, "year 0 discount factor")
	assertDecimalEqual(t, "20052511.32", y0.DiscountedCost, "year 0 discounted cost")
	assert.True(t, y0.Generation.IsZero(), "no generation in year 0")
	assert.True(t, y0.Opex.IsZero(), "no opex in year 0")

	y1 := years[1]
	assertDecimalEqual(t, "422800", y1.Opex, "year 1 opex")
	assertDecimalEqual(t, "26454.96", y1.Generation, "year 1 generation")
	assertDecimalEqual(t, "2910045.6", y1.Revenue, "year 1 revenue")
	assertDecimalEqual(t, "2487245.6", y1.CashFlow, "year 1 cash flow")
	assertDecimalNear(t, "0.90909091", y1.DiscountFactor, "0.000000005", "year 1 discount factor")
	assertDecimalEqual(t, "264549.6", y1.OfftakerSavings, "savings at 10/MWh")
	assert.True(t, y1.LandIncome.IsZero(), "land option disabled")

	// Year 2 degrades once and is not escalated for opex.
	assertDecimalEqual(t, "26349.14016", years[2].Generation, "year 2 generation")
	assertDecimalEqual(t, "422800", years[2].Opex, "zero escalation")

	last := years[15]
	assertDecimalNear(t, "-1594784.68", last.CumulativeDiscountedCashFlow, "0.5", "final cumulative discounted cash flow")
}

func TestProject_YearZeroInvariant(t *testing.T) {
	variants := map[string]func(*domain.ModelParameters){
		"reference":        func(*domain.ModelParameters) {},
		"land option on":   func(p *domain.ModelParameters) { p.LandOptionEnabled = true },
		"premium discount": func(p *domain.ModelParameters) { p.DevelopmentPremiumDiscount = dec("0.35") },
		"premium off":      func(p *domain.ModelParameters) { p.DevelopmentPremiumEnabled = false },
		"small plant":      func(p *domain.ModelParameters) { p.CapacityMW = dec("1.5"); p.ProjectLife = 1 },
	}
	grid := dec("1250000")

	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			p := referenceParameters()
			mutate(&p)

			years, err := Project(p, grid)
			require.NoError(t, err)

			capex := TotalCapex(p, grid)
			assert.True(t, years[0].CashFlow.Equal(capex.Neg()), "year 0 cash flow must be -capex")
			assert.True(t, years[0].CumulativeDiscountedCashFlow.Equal(years[0].CashFlow), "cumulative discounted starts at year 0 cash flow")
			assert.True(t, years[0].CumulativeCashFlow.Equal(years[0].CashFlow))
		})
	}
}

func TestProject_CumulativeFieldsFoldForward(t *testing.T) {
	years, err := Project(referenceParameters(), decimal.Zero)
	require.NoError(t, err)

	for i := 1; i < len(years); i++ {
		prev, curr := years[i-1], years[i]
		assert.True(t, curr.CumulativeCashFlow.Equal(prev.CumulativeCashFlow.Add(curr.CashFlow)), "year %d cumulative", i)
		assert.True(t, curr.CumulativeDiscountedCashFlow.Equal(prev.CumulativeDiscountedCashFlow.Add(curr.DiscountedCashFlow)), "year %d cumulative discounted", i)
		assert.Equal(t, i, curr.Year)
	}
}

func TestProject_DegradationStrictlyReducesGeneration(t *testing.T) {
	flat := referenceParameters()
	flat.DegradationRate = decimal.Zero
	degraded := referenceParameters()
	degraded.DegradationRate = dec("0.01")

	base, err := Project(flat, decimal.Zero)
	require.NoError(t, err)
	lower, err := Project(degraded, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, base[1].Generation.Equal(lower[1].Generation), "year 1 is undegraded")
	for year := 2; year < len(base); year++ {
		assert.True(t, lower[year].Generation.LessThan(base[year].Generation), "year %d generation should fall", year)
	}
}

func TestProject_Idempotent(t *testing.T) {
	p := referenceParameters()
	p.LandOptionEnabled = true
	p.OpexEscalationRate = dec("0.02")

	first, err := Project(p, dec("500000"))
	require.NoError(t, err)
	second, err := Project(p, dec("500000"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must give identical records")
}

func TestProject_LandOptionEscalatesWithInflation(t *testing.T) {
	p := referenceParameters()
	p.LandOptionEnabled = true

	years, err := Project(p, decimal.Zero)
	require.NoError(t, err)

	assertDecimalEqual(t, "140000", years[1].LandIncome, "year 1 land option")
	assertDecimalEqual(t, "143500", years[2].LandIncome, "year 2 land option at 2.5%")
	assertDecimalEqual(t, "562800", years[1].Opex, "opex includes the land option")
}

func TestProject_SharesNeedNotSumToOne(t *testing.T) {
	p := referenceParameters()
	p.PPAShare = dec("0.5")
	p.ExportShare = dec("0.2")

	years, err := Project(p, decimal.Zero)
	require.NoError(t, err)

	gen := years[1].Generation
	expected := gen.Mul(dec("0.5")).Mul(dec("110")).Add(gen.Mul(dec("0.2")).Mul(dec("50")))
	assert.True(t, expected.Equal(years[1].Revenue), "unallocated generation stays unmonetized")
}

func TestProject_IrradianceOverride(t *testing.T) {
	p := referenceParameters()
	p.IrradianceOverride = dec("1000")

	years, err := Project(p, decimal.Zero)
	require.NoError(t, err)
	assertDecimalEqual(t, "28000", years[1].Generation, "override replaces generation per MW")
}

func TestProject_LongHorizonKeepsDiscountPrecision(t *testing.T) {
	p := referenceParameters()
	p.ProjectLife = 200

	years, err := Project(p, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, years, 201)

	growth := dec("1.1").Pow(dec("200"))
	assertDecimalNear(t, "1", years[200].DiscountFactor.Mul(growth), "0.000000000000001", "year 200 factor inverts 1.1^200")
}

func TestProject_InvalidParameters(t *testing.T) {
	cases := map[string]func(*domain.ModelParameters){
		"zero capacity":        func(p *domain.ModelParameters) { p.CapacityMW = decimal.Zero },
		"negative capacity":    func(p *domain.ModelParameters) { p.CapacityMW = dec("-1") },
		"zero life":            func(p *domain.ModelParameters) { p.ProjectLife = 0 },
		"discount rate -100%":  func(p *domain.ModelParameters) { p.DiscountRate = dec("-1") },
		"degradation 100%":     func(p *domain.ModelParameters) { p.DegradationRate = dec("1") },
		"ppa share over 100%":  func(p *domain.ModelParameters) { p.PPAShare = dec("1.2") },
		"negative opex per MW": func(p *domain.ModelParameters) { p.OpexPerMW = dec("-5") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := referenceParameters()
			mutate(&p)

			years, err := Project(p, decimal.Zero)
			assert.Error(t, err)
			assert.Nil(t, years)
			assert.True(t, domain.IsValidationError(err), "should be a validation error, got %v", err)
		})
	}

	_, err := Project(referenceParameters(), dec("-1"))
	assert.True(t, domain.IsValidationError(err), "negative grid cost is rejected")
}

func TestResolveGridCost(t *testing.T) {
	p := referenceParameters()
	p.GridConnectionCost = dec("100")
	p.GridCostOverride = dec("200")

	assertDecimalEqual(t, "100", ResolveGridCost(p), "override disabled")
	p.GridCostOverrideEnabled = true
	assertDecimalEqual(t, "200", ResolveGridCost(p), "override enabled")
}

func TestDeveloperPremiumAndSavings(t *testing.T) {
	p := referenceParameters()
	p.DevelopmentPremiumDiscount = dec("0.25")
	assertDecimalEqual(t, "1050000", DeveloperPremium(p), "premium after 25% discount")

	p.DevelopmentPremiumEnabled = false
	assert.True(t, DeveloperPremium(p).IsZero())

	p.OffsetableEnergyCost = dec("90")
	assert.True(t, SavingsPerMWh(p).IsZero(), "savings never go negative")
}
