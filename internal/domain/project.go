package domain

import "time"

// SavedProject is a named scenario persisted with its last computed summary.
type SavedProject struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Parameters      ModelParameters  `json:"parameters"`
	Route           *RouteParameters `json:"route,omitempty"`
	UseGridEstimate bool             `json:"useGridEstimate"`
	Summary         *SummaryMetrics  `json:"summary,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Scenario returns the project's inputs as a runnable scenario.
func (p *SavedProject) Scenario() *Scenario {
	s := &Scenario{
		Name:            p.Name,
		Description:     p.Description,
		Parameters:      p.Parameters,
		Route:           p.Route,
		UseGridEstimate: p.UseGridEstimate,
	}
	return s.DeepCopy()
}

// ProjectSummary is the list view of a saved project.
type ProjectSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
