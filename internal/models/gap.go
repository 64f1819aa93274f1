// internal/models/gap.go
package models

import "github.com/google/uuid"

// Gap is a detected piece of missing scope. Estimates are nullable under the
// zero-quote philosophy: nil means the engine could not justify a number, not
// that the cost is zero.
type Gap struct {
	ID                string     `json:"id"`
	ProjectID         string     `json:"projectId,omitempty"`
	ScopeTag          string     `json:"scopeTag"`
	Description       string     `json:"description"`
	Source            string     `json:"source"`
	EstimatedLow      *float64   `json:"estimatedLow,omitempty"`
	EstimatedMid      *float64   `json:"estimatedMid,omitempty"`
	EstimatedHigh     *float64   `json:"estimatedHigh,omitempty"`
	RateSource        string     `json:"rateSource,omitempty"`
	Confidence        Confidence `json:"confidence"`
	Resolved          bool       `json:"resolved"`
	ResolvedByQuoteID string     `json:"resolvedByQuoteId,omitempty"`
}

// GapDraft is the incrementally-built variant the engines emit. It has no
// identity and no resolution state until the caller persists it.
type GapDraft struct {
	ScopeTag      string     `json:"scopeTag"`
	Description   string     `json:"description"`
	Source        string     `json:"source"`
	EstimatedLow  *float64   `json:"estimatedLow,omitempty"`
	EstimatedMid  *float64   `json:"estimatedMid,omitempty"`
	EstimatedHigh *float64   `json:"estimatedHigh,omitempty"`
	RateSource    string     `json:"rateSource,omitempty"`
	Confidence    Confidence `json:"confidence"`
}

// Finalize promotes a draft to a persistable Gap with a fresh identity.
func (d GapDraft) Finalize(projectID string) Gap {
	return Gap{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		ScopeTag:      d.ScopeTag,
		Description:   d.Description,
		Source:        d.Source,
		EstimatedLow:  d.EstimatedLow,
		EstimatedMid:  d.EstimatedMid,
		EstimatedHigh: d.EstimatedHigh,
		RateSource:    d.RateSource,
		Confidence:    d.Confidence,
	}
}
