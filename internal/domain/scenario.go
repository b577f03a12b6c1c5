package domain

// Scenario is a named model run. When UseGridEstimate is set and a
// route is given, the grid cost is the route estimate's midpoint unless
// the manual override is enabled.
type Scenario struct {
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Parameters      ModelParameters  `json:"parameters"`
	Route           *RouteParameters `json:"route,omitempty"`
	UseGridEstimate bool             `json:"useGridEstimate"`
}

// DeepCopy returns a copy that shares no pointers with s.
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}
	c := *s
	if s.Route != nil {
		route := *s.Route
		c.Route = &route
	}
	return &c
}
