package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages named scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// CreateBuiltInTemplates creates a registry with the common what-if cases
// for a solar project.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{Name: "tariff_down_10", Description: "Power price 10% lower",
		Transforms: []ScenarioTransform{&ScaleTariff{Percent: pct(-10)}}})
	registry.Register(Template{Name: "tariff_up_10", Description: "Power price 10% higher",
		Transforms: []ScenarioTransform{&ScaleTariff{Percent: pct(10)}}})

	registry.Register(Template{Name: "capex_down_10", Description: "Capex per MW 10% lower",
		Transforms: []ScenarioTransform{&ScaleCapex{Percent: pct(-10)}}})
	registry.Register(Template{Name: "capex_up_10", Description: "Capex per MW 10% higher",
		Transforms: []ScenarioTransform{&ScaleCapex{Percent: pct(10)}}})

	registry.Register(Template{Name: "yield_down_5", Description: "Generation per MW 5% lower",
		Transforms: []ScenarioTransform{&ScaleGeneration{Percent: pct(-5)}}})

	registry.Register(Template{Name: "discount_8pct", Description: "Discount at 8%",
		Transforms: []ScenarioTransform{&SetDiscountRate{Rate: decimal.NewFromFloat(0.08)}}})
	registry.Register(Template{Name: "discount_12pct", Description: "Discount at 12%",
		Transforms: []ScenarioTransform{&SetDiscountRate{Rate: decimal.NewFromFloat(0.12)}}})

	registry.Register(Template{Name: "life_25yr", Description: "Operate for 25 years",
		Transforms: []ScenarioTransform{&SetProjectLife{Years: 25}}})

	registry.Register(Template{Name: "no_land_option", Description: "No land option payments",
		Transforms: []ScenarioTransform{&SetLandOption{Enabled: false}}})

	registry.Register(Template{Name: "downside", Description: "Tariff -10%, capex +10% and yield -5%",
		Transforms: []ScenarioTransform{
			&ScaleTariff{Percent: pct(-10)},
			&ScaleCapex{Percent: pct(10)},
			&ScaleGeneration{Percent: pct(-5)},
		}})
	registry.Register(Template{Name: "upside", Description: "Tariff +10% and capex -10%",
		Transforms: []ScenarioTransform{
			&ScaleTariff{Percent: pct(10)},
			&ScaleCapex{Percent: pct(-10)},
		}})

	return registry
}

// ApplyTemplate applies a template to a base scenario
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, name := range registry.List() {
		t := registry.templates[name]
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
	}
	sb.WriteString("\nUsage:\n")
	sb.WriteString("  pvfin compare base.yaml --with tariff_down_10,downside\n")
	sb.WriteString("  pvfin compare base.yaml --transform set_route:voltage=66,distance=8\n")

	return sb.String()
}
