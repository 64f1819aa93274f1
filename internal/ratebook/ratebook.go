// internal/ratebook/ratebook.go
// Package ratebook holds the static regional pricing and rules data the
// engines consult: market cost ranges per scope, brand catalogs per product
// category, scope-dependency rules, and logistics defaults. A Ratebook is an
// immutable value loaded once; swapping regions is a data change, never a
// code change.
package ratebook

import (
	"encoding/json"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"costguard/internal/common/errors"
	"costguard/internal/models"
)

// Ratebook is the versioned, read-only rules and rates table.
type Ratebook struct {
	Version           string                      `json:"version"`
	Region            string                      `json:"region"`
	SourceRef         string                      `json:"sourceRef"`
	Rates             map[string]models.CostRange `json:"rates"`
	BrandCatalog      map[string][]string         `json:"brandCatalog"`
	ScopeDependencies []ScopeDependencyRule       `json:"scopeDependencies"`
	LogisticsDefaults LogisticsDefaults           `json:"logisticsDefaults"`
	CSIDivisions      map[string]string           `json:"csiDivisions"`
}

// ScopeDependencyRule says that if any trigger keyword appears in a project's
// line text, at least one required keyword must also appear somewhere, or the
// project is missing scope. Encodes that certain scopes are never
// self-sufficient: tile work always needs setting materials.
type ScopeDependencyRule struct {
	Name             string   `json:"name"`
	TriggerKeywords  []string `json:"triggerKeywords"`
	RequiredKeywords []string `json:"requiredKeywords"`
	GapScopeTag      string   `json:"gapScopeTag"`
	GapDescription   string   `json:"gapDescription"`
	RateKey          string   `json:"rateKey,omitempty"`
}

// LogisticsDefaults supplies fallback freight/delivery assumptions for gaps
// priced by the LOGISTICS_RULE source.
type LogisticsDefaults struct {
	DeliveryFlat      float64 `json:"deliveryFlat"`
	FreightPercentage float64 `json:"freightPercentage"`
}

// MarketRange returns the regional cost range for a scope tag, if the book
// has one.
func (r *Ratebook) MarketRange(scopeTag string) (models.CostRange, bool) {
	cr, ok := r.Rates[scopeTag]
	return cr, ok
}

// schema is the JSON Schema every ratebook file must satisfy before the
// engines will consult it.
const schema = `{
	"type": "object",
	"required": ["version", "region", "sourceRef"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"region": {"type": "string", "minLength": 1},
		"sourceRef": {"type": "string", "minLength": 1},
		"rates": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["low", "likely", "high"],
				"properties": {
					"low": {"type": "number", "minimum": 0},
					"likely": {"type": "number", "minimum": 0},
					"high": {"type": "number", "minimum": 0}
				}
			}
		},
		"brandCatalog": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {"type": "string", "minLength": 1}
			}
		},
		"scopeDependencies": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "triggerKeywords", "requiredKeywords", "gapScopeTag"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"triggerKeywords": {"type": "array", "items": {"type": "string"}, "minItems": 1},
					"requiredKeywords": {"type": "array", "items": {"type": "string"}, "minItems": 1},
					"gapScopeTag": {"type": "string", "minLength": 1}
				}
			}
		},
		"logisticsDefaults": {
			"type": "object",
			"properties": {
				"deliveryFlat": {"type": "number", "minimum": 0},
				"freightPercentage": {"type": "number", "minimum": 0}
			}
		},
		"csiDivisions": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`

// Load reads and validates a ratebook JSON file.
func Load(path string) (*Ratebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewRatebookLoadError(path, err)
	}
	return parse(data, path)
}

// Parse validates raw ratebook JSON against the schema and decodes it.
func Parse(data []byte) (*Ratebook, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (*Ratebook, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, errors.NewRatebookLoadError(path, err)
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			violations[i] = e.String()
		}
		return nil, errors.NewRatebookSchemaError(path, violations)
	}

	var rb Ratebook
	if err := json.Unmarshal(data, &rb); err != nil {
		return nil, errors.NewRatebookLoadError(path, err)
	}

	if rb.Rates == nil {
		rb.Rates = map[string]models.CostRange{}
	}
	if rb.BrandCatalog == nil {
		rb.BrandCatalog = map[string][]string{}
	}

	// Ranges are stored as plain numbers in the file; stamp provenance here
	// so every estimate that leaves the book can be traced to it.
	for tag, cr := range rb.Rates {
		cr.Source = models.CostSource{Type: models.SourceRatebookV1, Ref: rb.SourceRef}
		if cr.Confidence == "" {
			cr.Confidence = models.ConfidenceMedium
		}
		rb.Rates[tag] = cr
	}

	return &rb, nil
}
