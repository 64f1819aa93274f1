// internal/ratebook/defaults.go
package ratebook

import "costguard/internal/models"

const defaultSourceRef = "ratebook/us-national/2024Q3"

// Default returns the built-in US national ratebook. Regional books loaded
// from disk take precedence; this one exists so the engines work with zero
// configuration.
func Default() *Ratebook {
	return &Ratebook{
		Version:   "1",
		Region:    "us-national",
		SourceRef: defaultSourceRef,
		Rates: map[string]models.CostRange{
			"DRYWALL":         nationalRange(1800, 2600, 3800),
			"TILE":            nationalRange(2200, 3400, 5200),
			"TILE_PREP":       nationalRange(400, 650, 1100),
			"FLOORING":        nationalRange(2500, 4000, 6500),
			"PAINT":           nationalRange(1200, 2000, 3200),
			"ROOFING":         nationalRange(6500, 9500, 14000),
			"PLUMBING":        nationalRange(2800, 4500, 7500),
			"ELECTRICAL":      nationalRange(2400, 4000, 6800),
			"HVAC":            nationalRange(5000, 8000, 12500),
			"WINDOWS":         nationalRange(3500, 5500, 9000),
			"CABINETS":        nationalRange(4500, 8000, 15000),
			"COUNTERTOPS":     nationalRange(2000, 3500, 6000),
			"INSULATION":      nationalRange(1200, 1900, 3000),
			"DEMOLITION":      nationalRange(800, 1500, 3000),
			"PERMIT_FEES":     nationalRange(500, 1200, 2500),
			"DUMPSTER":        nationalRange(350, 500, 800),
			"PAINT_MATERIALS": nationalRange(300, 550, 950),
		},
		BrandCatalog: map[string][]string{
			"windows":    {"Andersen", "Pella", "Marvin", "Milgard", "Jeld-Wen"},
			"plumbing":   {"Kohler", "Moen", "Delta", "Grohe", "American Standard"},
			"appliances": {"GE", "Whirlpool", "Samsung", "LG", "Bosch", "KitchenAid", "Sub-Zero"},
			"hvac":       {"Carrier", "Trane", "Lennox", "Rheem", "Goodman"},
			"roofing":    {"GAF", "Owens Corning", "CertainTeed", "TAMKO"},
			"paint":      {"Sherwin-Williams", "Benjamin Moore", "Behr", "Valspar"},
			"cabinets":   {"KraftMaid", "Thomasville", "Merillat", "IKEA", "Wellborn"},
		},
		ScopeDependencies: []ScopeDependencyRule{
			{
				Name:             "tile requires setting materials",
				TriggerKeywords:  []string{"tile", "ceramic", "porcelain", "mosaic"},
				RequiredKeywords: []string{"thinset", "grout", "mortar", "subfloor", "backer board", "prep"},
				GapScopeTag:      "TILE_PREP",
				GapDescription:   "Tile scope present with no setting materials (thinset, grout, backer) priced anywhere",
				RateKey:          "TILE_PREP",
			},
			{
				Name:             "paint requires surface prep",
				TriggerKeywords:  []string{"paint", "painting", "repaint"},
				RequiredKeywords: []string{"primer", "prep", "patching", "sanding", "caulk"},
				GapScopeTag:      "PAINT_MATERIALS",
				GapDescription:   "Painting scope present with no prep or primer priced anywhere",
				RateKey:          "PAINT_MATERIALS",
			},
			{
				Name:             "roofing requires tear-off disposal",
				TriggerKeywords:  []string{"roof", "shingle", "re-roof"},
				RequiredKeywords: []string{"tear-off", "tear off", "disposal", "dumpster", "haul"},
				GapScopeTag:      "DUMPSTER",
				GapDescription:   "Roofing scope present with no tear-off disposal priced anywhere",
				RateKey:          "DUMPSTER",
			},
			{
				Name:             "demolition requires debris removal",
				TriggerKeywords:  []string{"demo", "demolition", "gut"},
				RequiredKeywords: []string{"dumpster", "disposal", "haul", "debris"},
				GapScopeTag:      "DUMPSTER",
				GapDescription:   "Demolition scope present with no debris removal priced anywhere",
				RateKey:          "DUMPSTER",
			},
		},
		LogisticsDefaults: LogisticsDefaults{
			DeliveryFlat:      250,
			FreightPercentage: 4,
		},
		CSIDivisions: map[string]string{
			"02": "Existing Conditions",
			"03": "Concrete",
			"06": "Wood, Plastics, and Composites",
			"07": "Thermal and Moisture Protection",
			"08": "Openings",
			"09": "Finishes",
			"22": "Plumbing",
			"23": "HVAC",
			"26": "Electrical",
		},
	}
}

func nationalRange(low, likely, high float64) models.CostRange {
	return models.CostRange{
		Low:        low,
		Likely:     likely,
		High:       high,
		Confidence: models.ConfidenceMedium,
		Source:     models.CostSource{Type: models.SourceRatebookV1, Ref: defaultSourceRef},
	}
}
