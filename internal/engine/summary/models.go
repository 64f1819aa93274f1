// internal/engine/summary/models.go
package summary

import "costguard/internal/models"

// Input is the full project state the summary is computed from. The summary
// is a pure function of this snapshot; nothing is cached between calls.
type Input struct {
	Quotes    []models.Quote    `json:"quotes"`
	Gaps      []models.Gap      `json:"gaps"`
	Decisions []models.Decision `json:"decisions"`
}

// EstimatedCost is the gap-derived range that sits on top of quoted cost.
type EstimatedCost struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// ProjectSummary is the single point of truth for what the project costs
// right now.
type ProjectSummary struct {
	VerifiedCost  float64           `json:"verifiedCost"`
	PendingCost   float64           `json:"pendingCost"`
	EstimatedCost EstimatedCost     `json:"estimatedCost"`
	GapCount      int               `json:"gapCount"`
	DecisionCount int               `json:"decisionCount"`
	Confidence    models.Confidence `json:"confidence"`
}
