// internal/engine/dedupe/models.go
package dedupe

import "costguard/internal/models"

// Action is the gating outcome of a dedupe check.
type Action string

const (
	ActionNone               Action = "NONE"
	ActionAutoLinked         Action = "AUTO_LINKED"
	ActionPotentialDuplicate Action = "POTENTIAL_DUPLICATE"
)

// Input pairs a parent line against a candidate child quote.
type Input struct {
	ParentLine     models.Line  `json:"parentLine"`
	ParentQuote    models.Quote `json:"parentQuote"`
	CandidateQuote models.Quote `json:"candidateQuote"`
}

// TaxTrapResult describes the subtotal-vs-total failure mode: a parent line
// priced to a child's subtotal while the child's real total is higher, so
// tax and freight would silently fall out of the project cost.
type TaxTrapResult struct {
	IsTaxTrap       bool    `json:"isTaxTrap"`
	MatchesSubtotal bool    `json:"matchesSubtotal"`
	MatchesTotal    bool    `json:"matchesTotal"`
	HiddenAmount    float64 `json:"hiddenAmount,omitempty"`
}

// MatchResult classifies a line amount against a quote's total and subtotal.
type MatchResult struct {
	MatchType       models.MatchType `json:"matchType"`
	VariancePercent float64          `json:"variancePercent"`
	HasEvidence     bool             `json:"hasEvidence"`
	Evidence        string           `json:"evidence,omitempty"`
	Confidence      int              `json:"confidence"`
	TaxTrap         TaxTrapResult    `json:"taxTrap"`
}

// Output is the full result of a dedupe check. LinkedQuoteID is set only for
// AUTO_LINKED; the caller persists the link and the line status transition
// atomically.
type Output struct {
	Action        Action                `json:"action"`
	Match         MatchResult           `json:"match"`
	LinkedQuoteID string                `json:"linkedQuoteId,omitempty"`
	LineStatus    models.QuoteStatus    `json:"lineStatus,omitempty"`
	Decision      *models.DecisionDraft `json:"decision,omitempty"`
}
