package config

import (
	"os"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

// ScenarioFile is the on-disk shape of a scenario. Rates and shares are
// written as percentages and converted to fractions on load.
type ScenarioFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Model       ModelInput  `yaml:"model"`
	Route       *RouteInput `yaml:"route,omitempty"`
}

// ModelInput mirrors domain.ModelParameters with percentage fields.
// Keys absent from the file keep their defaults.
type ModelInput struct {
	CapacityMW                    decimal.Decimal `yaml:"capacity_mw"`
	CapexPerMW                    decimal.Decimal `yaml:"capex_per_mw"`
	PrivateWireCost               decimal.Decimal `yaml:"private_wire_cost"`
	GridConnectionCost            decimal.Decimal `yaml:"grid_connection_cost"`
	UseGridEstimate               bool            `yaml:"use_grid_estimate"`
	GridCostOverrideEnabled       bool            `yaml:"grid_cost_override_enabled"`
	GridCostOverride              decimal.Decimal `yaml:"grid_cost_override"`
	DevelopmentPremiumEnabled     bool            `yaml:"development_premium_enabled"`
	DevelopmentPremiumPerMW       decimal.Decimal `yaml:"development_premium_per_mw"`
	DevelopmentPremiumDiscountPct decimal.Decimal `yaml:"development_premium_discount_pct"`
	LandOptionEnabled             bool            `yaml:"land_option_enabled"`
	LandOptionCostPerMW           decimal.Decimal `yaml:"land_option_cost_per_mw"`
	LandOptionDiscountPct         decimal.Decimal `yaml:"land_option_discount_pct"`
	CostInflationPct              decimal.Decimal `yaml:"cost_inflation_pct"`
	OpexPerMW                     decimal.Decimal `yaml:"opex_per_mw"`
	OpexEscalationPct             decimal.Decimal `yaml:"opex_escalation_pct"`
	GenerationPerMW               decimal.Decimal `yaml:"generation_per_mw"`
	IrradianceOverride            decimal.Decimal `yaml:"irradiance_override"`
	DegradationPct                decimal.Decimal `yaml:"degradation_pct"`
	ProjectLife                   int             `yaml:"project_life"`
	DiscountRatePct               decimal.Decimal `yaml:"discount_rate_pct"`
	PowerPrice                    decimal.Decimal `yaml:"power_price"`
	PPASharePct                   decimal.Decimal `yaml:"ppa_share_pct"`
	ExportSharePct                decimal.Decimal `yaml:"export_share_pct"`
	ExportPrice                   decimal.Decimal `yaml:"export_price"`
	OffsetableEnergyCost          decimal.Decimal `yaml:"offsetable_energy_cost"`
	LandValue                     decimal.Decimal `yaml:"land_value"`
}

// RouteInput mirrors domain.RouteParameters with percentage fields.
type RouteInput struct {
	DistanceKm                  decimal.Decimal `yaml:"distance_km"`
	RoadPct                     decimal.Decimal `yaml:"road_pct"`
	CableVoltageKV              decimal.Decimal `yaml:"cable_voltage_kv"`
	StepUpUnits                 int             `yaml:"step_up_units"`
	StepDownUnits               int             `yaml:"step_down_units"`
	RoadCrossings               int             `yaml:"road_crossings"`
	IncludeStepDownInstallation bool            `yaml:"include_step_down_installation"`
	WayleaveYears               int             `yaml:"wayleave_years"`
	WayleaveDiscountPct         decimal.Decimal `yaml:"wayleave_discount_pct"`
	RoadLayingCostPerKm         decimal.Decimal `yaml:"road_laying_cost_per_km"`
	StepDownTargetKV            decimal.Decimal `yaml:"step_down_target_kv"`
}

// UnmarshalYAML starts from the default model so partial files are valid.
func (m *ModelInput) UnmarshalYAML(node *yaml.Node) error {
	*m = NewModelInput(domain.DefaultModelParameters(), false)
	type plain ModelInput
	return node.Decode((*plain)(m))
}

// UnmarshalYAML starts from the default route so partial files are valid.
func (r *RouteInput) UnmarshalYAML(node *yaml.Node) error {
	*r = NewRouteInput(domain.DefaultRouteParameters())
	type plain RouteInput
	return node.Decode((*plain)(r))
}

// NewModelInput converts model parameters to their file form.
func NewModelInput(p domain.ModelParameters, useGridEstimate bool) ModelInput {
	return ModelInput{
		CapacityMW:                    p.CapacityMW,
		CapexPerMW:                    p.CapexPerMW,
		PrivateWireCost:               p.PrivateWireCost,
		GridConnectionCost:            p.GridConnectionCost,
		UseGridEstimate:               useGridEstimate,
		GridCostOverrideEnabled:       p.GridCostOverrideEnabled,
		GridCostOverride:              p.GridCostOverride,
		DevelopmentPremiumEnabled:     p.DevelopmentPremiumEnabled,
		DevelopmentPremiumPerMW:       p.DevelopmentPremiumPerMW,
		DevelopmentPremiumDiscountPct: percent(p.DevelopmentPremiumDiscount),
		LandOptionEnabled:             p.LandOptionEnabled,
		LandOptionCostPerMW:           p.LandOptionCostPerMW,
		LandOptionDiscountPct:         percent(p.LandOptionDiscount),
		CostInflationPct:              percent(p.CostInflationRate),
		OpexPerMW:                     p.OpexPerMW,
		OpexEscalationPct:             percent(p.OpexEscalationRate),
		GenerationPerMW:               p.GenerationPerMW,
		IrradianceOverride:            p.IrradianceOverride,
		DegradationPct:                percent(p.DegradationRate),
		ProjectLife:                   p.ProjectLife,
		DiscountRatePct:               percent(p.DiscountRate),
		PowerPrice:                    p.PowerPrice,
		PPASharePct:                   percent(p.PPAShare),
		ExportSharePct:                percent(p.ExportShare),
		ExportPrice:                   p.ExportPrice,
		OffsetableEnergyCost:          p.OffsetableEnergyCost,
		LandValue:                     p.LandValue,
	}
}

// Parameters converts the file form to model parameters.
func (m ModelInput) Parameters() domain.ModelParameters {
	return domain.ModelParameters{
		CapacityMW:                 m.CapacityMW,
		CapexPerMW:                 m.CapexPerMW,
		PrivateWireCost:            m.PrivateWireCost,
		GridConnectionCost:         m.GridConnectionCost,
		GridCostOverrideEnabled:    m.GridCostOverrideEnabled,
		GridCostOverride:           m.GridCostOverride,
		DevelopmentPremiumEnabled:  m.DevelopmentPremiumEnabled,
		DevelopmentPremiumPerMW:    m.DevelopmentPremiumPerMW,
		DevelopmentPremiumDiscount: fraction(m.DevelopmentPremiumDiscountPct),
		LandOptionEnabled:          m.LandOptionEnabled,
		LandOptionCostPerMW:        m.LandOptionCostPerMW,
		LandOptionDiscount:         fraction(m.LandOptionDiscountPct),
		CostInflationRate:          fraction(m.CostInflationPct),
		OpexPerMW:                  m.OpexPerMW,
		OpexEscalationRate:         fraction(m.OpexEscalationPct),
		GenerationPerMW:            m.GenerationPerMW,
		IrradianceOverride:         m.IrradianceOverride,
		DegradationRate:            fraction(m.DegradationPct),
		ProjectLife:                m.ProjectLife,
		DiscountRate:               fraction(m.DiscountRatePct),
		PowerPrice:                 m.PowerPrice,
		PPAShare:                   fraction(m.PPASharePct),
		ExportShare:                fraction(m.ExportSharePct),
		ExportPrice:                m.ExportPrice,
		OffsetableEnergyCost:       m.OffsetableEnergyCost,
		LandValue:                  m.LandValue,
	}
}

// NewRouteInput converts route parameters to their file form.
func NewRouteInput(r domain.RouteParameters) RouteInput {
	return RouteInput{
		DistanceKm:                  r.DistanceKm,
		RoadPct:                     percent(r.RoadFraction),
		CableVoltageKV:              r.CableVoltageKV,
		StepUpUnits:                 r.StepUpUnits,
		StepDownUnits:               r.StepDownUnits,
		RoadCrossings:               r.RoadCrossings,
		IncludeStepDownInstallation: r.IncludeStepDownInstallation,
		WayleaveYears:               r.WayleaveYears,
		WayleaveDiscountPct:         percent(r.WayleaveDiscount),
		RoadLayingCostPerKm:         r.RoadLayingCostPerKm,
		StepDownTargetKV:            r.StepDownTargetKV,
	}
}

// Parameters converts the file form to route parameters.
func (r RouteInput) Parameters() domain.RouteParameters {
	return domain.RouteParameters{
		DistanceKm:                  r.DistanceKm,
		RoadFraction:                fraction(r.RoadPct),
		CableVoltageKV:              r.CableVoltageKV,
		StepUpUnits:                 r.StepUpUnits,
		StepDownUnits:               r.StepDownUnits,
		RoadCrossings:               r.RoadCrossings,
		IncludeStepDownInstallation: r.IncludeStepDownInstallation,
		WayleaveYears:               r.WayleaveYears,
		WayleaveDiscount:            fraction(r.WayleaveDiscountPct),
		RoadLayingCostPerKm:         r.RoadLayingCostPerKm,
		StepDownTargetKV:            r.StepDownTargetKV,
	}
}

// Scenario converts the file to a domain scenario.
func (f *ScenarioFile) Scenario() *domain.Scenario {
	s := &domain.Scenario{
		Name:            f.Name,
		Description:     f.Description,
		Parameters:      f.Model.Parameters(),
		UseGridEstimate: f.Model.UseGridEstimate,
	}
	if f.Route != nil {
		route := f.Route.Parameters()
		s.Route = &route
	}
	return s
}

// NewScenarioFile converts a domain scenario to its file form.
func NewScenarioFile(s *domain.Scenario) *ScenarioFile {
	f := &ScenarioFile{
		Name:        s.Name,
		Description: s.Description,
		Model:       NewModelInput(s.Parameters, s.UseGridEstimate),
	}
	if s.Route != nil {
		route := NewRouteInput(*s.Route)
		f.Route = &route
	}
	return f
}

func fraction(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

func percent(f decimal.Decimal) decimal.Decimal {
	return f.Mul(hundred)
}

// DefaultScenario is the reference model on the default route.
func DefaultScenario() *domain.Scenario {
	route := domain.DefaultRouteParameters()
	return &domain.Scenario{
		Name:        "Reference",
		Description: "28 MW reference model on a 5 km, 33 kV route",
		Parameters:  domain.DefaultModelParameters(),
		Route:       &route,
	}
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a YAML scenario file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read file %s", filename)
	}
	return ip.Parse(data)
}

// Parse decodes and validates YAML scenario bytes
func (ip *InputParser) Parse(data []byte) (*domain.Scenario, error) {
	// A file without a model section runs the default model.
	file := ScenarioFile{Model: NewModelInput(domain.DefaultModelParameters(), false)}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "failed to parse YAML")
	}

	scenario := file.Scenario()
	if err := ip.ValidateConfiguration(scenario); err != nil {
		return nil, eris.Wrap(err, "configuration validation failed")
	}
	return scenario, nil
}

// Marshal encodes a scenario in the file format read by LoadFromFile
func (ip *InputParser) Marshal(s *domain.Scenario) ([]byte, error) {
	data, err := yaml.Marshal(NewScenarioFile(s))
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode YAML")
	}
	return data, nil
}

// ValidateConfiguration validates a loaded scenario
func (ip *InputParser) ValidateConfiguration(s *domain.Scenario) error {
	if s == nil {
		return eris.New("scenario is required")
	}
	if s.Name == "" {
		return eris.New("scenario name is required")
	}
	if err := s.Parameters.Validate(); err != nil {
		return eris.Wrap(err, "model validation failed")
	}
	if s.Route != nil {
		if err := s.Route.Validate(); err != nil {
			return eris.Wrap(err, "route validation failed")
		}
	} else if s.UseGridEstimate {
		return eris.New("use_grid_estimate requires a route section")
	}
	return nil
}
