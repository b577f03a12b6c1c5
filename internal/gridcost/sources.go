package gridcost

import (
	"sort"
)

// Confidence grades how well a cost source supports its figures.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Source is the citation behind a cost table or default assumption.
type Source struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Year         int        `json:"year"`
	Link         string     `json:"link,omitempty"`
	Description  string     `json:"description"`
	Confidence   Confidence `json:"confidence"`
	LastUpdated  string     `json:"lastUpdated"`
}

var sources = map[string]Source{
	"cable-ssen": {
		ID:           "cable-ssen",
		Title:        "SSEN Distribution Charging Statements 2024-25",
		Organization: "Scottish and Southern Electricity Networks (SSEN)",
		Year:         2024,
		Link:         "https://www.ssen.co.uk/Business/Charges/Charging-Statements/",
		Description:  "Underground cable installation, trenching and reinstatement rates at 6 kV to 132 kV.",
		Confidence:   ConfidenceHigh,
		LastUpdated:  "2025-01-29",
	},
	"joint-bay-standards": {
		ID:           "joint-bay-standards",
		Title:        "UK Civil Works Standards for Cable Infrastructure",
		Organization: "Energy Networks Association (ENA) & UK Power Networks",
		Year:         2023,
		Link:         "https://www.energynetworks.org/electricity/engineering-and-safety/engineering-recommendations",
		Description:  "Joint bays, cable chambers and associated civil works.",
		Confidence:   ConfidenceHigh,
		LastUpdated:  "2025-01-29",
	},
	"transformer-market": {
		ID:           "transformer-market",
		Title:        "UK Distribution Transformer Market Pricing",
		Organization: "ABB, Siemens, Schneider Electric (Manufacturer Benchmarks)",
		Year:         2025,
		Link:         "https://www.abb.com/en/products/power-distribution/transformers",
		Description:  "Oil-immersed distribution transformers from 0.4 kV to 132 kV, installed and commissioned.",
		Confidence:   ConfidenceMedium,
		LastUpdated:  "2025-01-29",
	},
	"directional-drill": {
		ID:           "directional-drill",
		Title:        "SSEN Directional Drilling & Road Crossing Costs",
		Organization: "Scottish and Southern Electricity Networks (SSEN)",
		Year:         2024,
		Link:         "https://www.ssen.co.uk/Business/Charges/Charging-Statements/",
		Description:  "Horizontal directional drilling under highways including traffic management and reinstatement.",
		Confidence:   ConfidenceHigh,
		LastUpdated:  "2025-01-29",
	},
	"wayleave-ena": {
		ID:           "wayleave-ena",
		Title:        "ENA Wayleave Rates for Agricultural Land 2024-25",
		Organization: "Energy Networks Association (ENA)",
		Year:         2024,
		Link:         "https://www.energynetworks.org/electricity/connections/wayleaves",
		Description:  "Annual wayleave payments for underground cable across agricultural land.",
		Confidence:   ConfidenceMedium,
		LastUpdated:  "2025-01-29",
	},
	"termination-ssen": {
		ID:           "termination-ssen",
		Title:        "SSEN Cable Termination & Connection Charges",
		Organization: "Scottish and Southern Electricity Networks (SSEN)",
		Year:         2024,
		Link:         "https://www.ssen.co.uk/Business/Charges/Charging-Statements/",
		Description:  "LV and HV terminations at grid connection points and offtaker sites.",
		Confidence:   ConfidenceHigh,
		LastUpdated:  "2025-01-29",
	},
	"land-rights-ssen": {
		ID:           "land-rights-ssen",
		Title:        "SSEN Land Rights & Planning Guidance",
		Organization: "Scottish and Southern Electricity Networks (SSEN)",
		Year:         2024,
		Link:         "https://www.ssen.co.uk/Business/Connections/Private-Wire-Connections/",
		Description:  "Easements, legal fees, surveys and planning for private wire installations.",
		Confidence:   ConfidenceMedium,
		LastUpdated:  "2025-01-29",
	},
	"panel-degradation": {
		ID:           "panel-degradation",
		Title:        "IEC 61215 Solar Panel Degradation Standards",
		Organization: "International Electrotechnical Commission (IEC)",
		Year:         2021,
		Link:         "https://www.iec.ch/webstore/publication/59237",
		Description:  "Module performance and annual degradation of crystalline silicon panels.",
		Confidence:   ConfidenceHigh,
		LastUpdated:  "2025-01-29",
	},
	"solar-irradiance": {
		ID:           "solar-irradiance",
		Title:        "UK Solar Irradiance Data - PVGIS",
		Organization: "European Commission - Photovoltaic Geographical Information System",
		Year:         2024,
		Link:         "https://pvgis.ec.europa.eu/",
		Description:  "Satellite irradiance estimates for UK sites.",
		Confidence:   ConfidenceHigh,
		LastUpdated:  "2025-01-29",
	},
	"discount-rate": {
		ID:           "discount-rate",
		Title:        "UK Green Investment Bank Cost of Capital",
		Organization: "UK Green Investment Bank & HM Treasury",
		Year:         2023,
		Link:         "https://www.gov.uk/government/publications/green-book-appraisal-and-evaluation",
		Description:  "Discount rates for renewable projects; private sector WACC typically 8-10%.",
		Confidence:   ConfidenceMedium,
		LastUpdated:  "2025-01-29",
	},
	"opex-escalation": {
		ID:           "opex-escalation",
		Title:        "UK Office for National Statistics (ONS) - RPI",
		Organization: "UK Office for National Statistics",
		Year:         2025,
		Link:         "https://www.ons.gov.uk/economy/inflationandpriceindices/timeseries/rluq",
		Description:  "Retail price index used for operating cost escalation.",
		Confidence:   ConfidenceMedium,
		LastUpdated:  "2025-01-29",
	},
	"epc-costs": {
		ID:           "epc-costs",
		Title:        "UK Solar PV EPC Benchmark Costs",
		Organization: "BNEF (Bloomberg NEF) & UK Solar Trade Association",
		Year:         2024,
		Link:         "https://www.solartradeassociation.org.uk/",
		Description:  "Engineering, procurement and construction cost per MW for utility scale PV.",
		Confidence:   ConfidenceMedium,
		LastUpdated:  "2025-01-29",
	},
}

// TableSources maps each cost table to the source that backs it.
var TableSources = map[string]string{
	"cable":                  "cable-ssen",
	"step-up transformer":    "transformer-market",
	"step-down transformer":  "transformer-market",
	"step-down installation": "transformer-market",
	"joint bay":              "joint-bay-standards",
	"road crossing":          "directional-drill",
	"termination":            "termination-ssen",
	"HV termination":         "termination-ssen",
	"wayleave":               "wayleave-ena",
	"land rights":            "land-rights-ssen",
}

// LookupSource returns the source with the given ID.
func LookupSource(id string) (Source, bool) {
	s, ok := sources[id]
	return s, ok
}

// Sources returns every source ordered by ID.
func Sources() []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
