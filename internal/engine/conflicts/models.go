// internal/engine/conflicts/models.go
package conflicts

import "costguard/internal/models"

// ConflictType names what kind of contradiction was found.
type ConflictType string

const (
	ConflictBrand     ConflictType = "BRAND"
	ConflictDimension ConflictType = "DIMENSION"
	ConflictQuantity  ConflictType = "QUANTITY"
)

// Conflict is one detected contradiction between plan and quote.
type Conflict struct {
	ConflictType ConflictType    `json:"conflictType"`
	Severity     models.Severity `json:"severity"`
	Category     string          `json:"category,omitempty"`
	Description  string          `json:"description"`
	PlanValue    string          `json:"planValue,omitempty"`
	QuoteValue   string          `json:"quoteValue,omitempty"`
	LineID       string          `json:"lineId,omitempty"`
}

// TakeoffItem is one quantity the takeoff derived from the plans.
type TakeoffItem struct {
	ScopeTag string  `json:"scopeTag"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// QuantityMismatch reports a takeoff quantity a quote disagrees with.
type QuantityMismatch struct {
	ScopeTag        string          `json:"scopeTag"`
	TakeoffQuantity float64         `json:"takeoffQuantity"`
	QuoteQuantity   float64         `json:"quoteQuantity"`
	VariancePercent float64         `json:"variancePercent"`
	Severity        models.Severity `json:"severity"`
	LineID          string          `json:"lineId,omitempty"`
}

// Input is everything a conflict scan compares.
type Input struct {
	PlanText     string         `json:"planText"`
	QuoteText    string         `json:"quoteText"`
	QuoteLines   []models.Line  `json:"quoteLines"`
	TakeoffItems []TakeoffItem  `json:"takeoffItems,omitempty"`
}

// Output is the composed scan result. HasBlockingIssues is the signal that
// downstream workflow must not proceed without resolution; quantity
// mismatches are informational and never set it.
type Output struct {
	Conflicts          []Conflict             `json:"conflicts"`
	QuantityMismatches []QuantityMismatch     `json:"quantityMismatches,omitempty"`
	Decisions          []models.DecisionDraft `json:"decisions,omitempty"`
	HasBlockingIssues  bool                   `json:"hasBlockingIssues"`
}
