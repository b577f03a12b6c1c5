package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, as typed
// on the command line.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("scale_tariff", createScaleTariff)
	registry.Register("scale_capex", createScaleCapex)
	registry.Register("scale_generation", createScaleGeneration)
	registry.Register("set_discount_rate", createSetDiscountRate)
	registry.Register("set_project_life", createSetProjectLife)
	registry.Register("set_grid_cost", createSetGridCost)
	registry.Register("set_route", createSetRoute)
	registry.Register("set_land_option", createSetLandOption)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_route:voltage=66,distance=8"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func optionalDecimalParam(params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func createScaleTariff(params map[string]string) (ScenarioTransform, error) {
	pct, err := decimalParam("scale_tariff", params, "percent")
	if err != nil {
		return nil, err
	}
	return &ScaleTariff{Percent: pct}, nil
}

func createScaleCapex(params map[string]string) (ScenarioTransform, error) {
	pct, err := decimalParam("scale_capex", params, "percent")
	if err != nil {
		return nil, err
	}
	return &ScaleCapex{Percent: pct}, nil
}

func createScaleGeneration(params map[string]string) (ScenarioTransform, error) {
	pct, err := decimalParam("scale_generation", params, "percent")
	if err != nil {
		return nil, err
	}
	return &ScaleGeneration{Percent: pct}, nil
}

// createSetDiscountRate takes the rate as a percentage.
func createSetDiscountRate(params map[string]string) (ScenarioTransform, error) {
	pct, err := decimalParam("set_discount_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetDiscountRate{Rate: pct.Div(hundred)}, nil
}

func createSetProjectLife(params map[string]string) (ScenarioTransform, error) {
	raw, ok := params["years"]
	if !ok {
		return nil, fmt.Errorf("set_project_life requires 'years' parameter")
	}
	years, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid years value: %w", err)
	}
	return &SetProjectLife{Years: years}, nil
}

func createSetGridCost(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_grid_cost", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetGridCost{Amount: amount}, nil
}

func createSetRoute(params map[string]string) (ScenarioTransform, error) {
	voltage, err := optionalDecimalParam(params, "voltage")
	if err != nil {
		return nil, err
	}
	distance, err := optionalDecimalParam(params, "distance")
	if err != nil {
		return nil, err
	}
	return &SetRoute{VoltageKV: voltage, DistanceKm: distance}, nil
}

func createSetLandOption(params map[string]string) (ScenarioTransform, error) {
	raw, ok := params["enabled"]
	if !ok {
		return nil, fmt.Errorf("set_land_option requires 'enabled' parameter")
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid enabled value: %w", err)
	}
	return &SetLandOption{Enabled: enabled}, nil
}
