// internal/models/decision.go
package models

import "github.com/google/uuid"

// Decision is a human-review queue entry. The engines create these whenever
// automatic resolution would be unsafe; they never resolve one themselves.
type Decision struct {
	ID           string                 `json:"id"`
	ProjectID    string                 `json:"projectId,omitempty"`
	DecisionType DecisionType           `json:"decisionType"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	QuoteID      string                 `json:"quoteId,omitempty"`
	OtherQuoteID string                 `json:"otherQuoteId,omitempty"`
	LineID       string                 `json:"lineId,omitempty"`
	OtherLineID  string                 `json:"otherLineId,omitempty"`
	Evidence     map[string]interface{} `json:"evidence,omitempty"`
	Resolved     bool                   `json:"resolved"`
	Resolution   string                 `json:"resolution,omitempty"`
}

// DecisionDraft is the pre-persistence variant built up inside the engines.
type DecisionDraft struct {
	DecisionType DecisionType           `json:"decisionType"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	QuoteID      string                 `json:"quoteId,omitempty"`
	OtherQuoteID string                 `json:"otherQuoteId,omitempty"`
	LineID       string                 `json:"lineId,omitempty"`
	OtherLineID  string                 `json:"otherLineId,omitempty"`
	Evidence     map[string]interface{} `json:"evidence,omitempty"`
}

// Finalize promotes a draft to a persistable Decision with a fresh identity.
func (d DecisionDraft) Finalize(projectID string) Decision {
	return Decision{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		DecisionType: d.DecisionType,
		Title:        d.Title,
		Description:  d.Description,
		QuoteID:      d.QuoteID,
		OtherQuoteID: d.OtherQuoteID,
		LineID:       d.LineID,
		OtherLineID:  d.OtherLineID,
		Evidence:     d.Evidence,
	}
}
