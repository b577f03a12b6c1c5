// Package compare runs a base scenario against alternatives and reports
// how each one moves the headline metrics.
package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rgehrsitz/pvfin/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions selects the alternatives derived from the base
type CompareOptions struct {
	Scenarios  []*domain.Scenario            // explicit alternatives, compared as given
	Templates  []string                      // built-in template names
	Transforms []transform.ScenarioTransform // ad-hoc transforms, applied together as one alternative
}

// Compare runs the base scenario against the explicit alternatives, one
// alternative per template, and one for the ad-hoc transforms when any
// are given.
func (ce *CompareEngine) Compare(ctx context.Context, base *domain.Scenario, options CompareOptions) (*ComparisonSet, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	alternatives := make([]*domain.Scenario, 0, len(options.Scenarios)+len(options.Templates)+1)
	descriptions := make([]string, 0, cap(alternatives))
	for i, alt := range options.Scenarios {
		if alt == nil {
			return nil, fmt.Errorf("alternative scenario at index %d is nil", i)
		}
		alternatives = append(alternatives, alt)
		descriptions = append(descriptions, alt.Description)
	}
	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = base.Name + "_" + template.Name
		alternatives = append(alternatives, modified)
		descriptions = append(descriptions, template.Description)
	}

	if len(options.Transforms) > 0 {
		modified, err := transform.ApplyTransforms(base, options.Transforms)
		if err != nil {
			return nil, err
		}
		modified.Name = base.Name + "_custom"
		alternatives = append(alternatives, modified)
		descriptions = append(descriptions, describe(options.Transforms))
	}

	compSet, err := ce.CompareScenarios(ctx, base, alternatives)
	if err != nil {
		return nil, err
	}
	for i := range compSet.AlternativeResults {
		compSet.AlternativeResults[i].Description = descriptions[i]
	}
	return compSet, nil
}

// CompareScenarios compares explicit scenarios against base
func (ce *CompareEngine) CompareScenarios(ctx context.Context, base *domain.Scenario, alternatives []*domain.Scenario) (*ComparisonSet, error) {
	baseResult, err := ce.run(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, alt := range alternatives {
		altResult, err := ce.run(ctx, alt)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", alt.Name, err)
		}
		altResult.Description = alt.Description
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, s *domain.Scenario) (ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return ComparisonResult{}, err
	}
	result, err := ce.CalcEngine.RunScenario(s)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(result), nil
}

func describe(transforms []transform.ScenarioTransform) string {
	desc := ""
	for i, t := range transforms {
		if i > 0 {
			desc += "; "
		}
		desc += t.Description()
	}
	return desc
}
