// internal/models/costrange.go
package models

// CostSource records the provenance of an estimated price.
type CostSource struct {
	Type SourceType `json:"type"`
	Ref  string     `json:"ref,omitempty"`
}

// CostRange is the unit of estimated (non-quoted) pricing. Every range
// carries provenance so a number can always be traced back to a rate table,
// a quote extract, or an explicit user override.
type CostRange struct {
	Low        float64    `json:"low"`
	Likely     float64    `json:"likely"`
	High       float64    `json:"high"`
	Confidence Confidence `json:"confidence"`
	Source     CostSource `json:"source"`
}
