// internal/models/enums.go
package models

// QuoteStatus tracks where a quote sits in the review lifecycle.
type QuoteStatus string

const (
	QuoteStatusVerified           QuoteStatus = "VERIFIED"
	QuoteStatusPending            QuoteStatus = "PENDING"
	QuoteStatusPotentialDuplicate QuoteStatus = "POTENTIAL_DUPLICATE"
	QuoteStatusDecisionRequired   QuoteStatus = "DECISION_REQUIRED"
	QuoteStatusEstimate           QuoteStatus = "ESTIMATE"
	QuoteStatusGap                QuoteStatus = "GAP"
)

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusVerified, QuoteStatusPending, QuoteStatusPotentialDuplicate,
		QuoteStatusDecisionRequired, QuoteStatusEstimate, QuoteStatusGap:
		return true
	}
	return false
}

// ReconciliationRule governs how a quote's cost counts toward the project total.
type ReconciliationRule string

const (
	RuleAuthoritative ReconciliationRule = "AUTHORITATIVE"
	RuleAdditive      ReconciliationRule = "ADDITIVE"
	RuleReferenceOnly ReconciliationRule = "REFERENCE_ONLY"
)

func (r ReconciliationRule) IsValid() bool {
	switch r {
	case RuleAuthoritative, RuleAdditive, RuleReferenceOnly:
		return true
	}
	return false
}

// Confidence is the engine's trust level in a value it produced.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// LineType classifies what a priced line actually covers.
type LineType string

const (
	LineTypeMaterial         LineType = "MATERIAL"
	LineTypeLabor            LineType = "LABOR"
	LineTypeMaterialAndLabor LineType = "MATERIAL_AND_LABOR"
	LineTypeLogistics        LineType = "LOGISTICS"
	LineTypeOther            LineType = "OTHER"
)

func (t LineType) IsValid() bool {
	switch t {
	case LineTypeMaterial, LineTypeLabor, LineTypeMaterialAndLabor,
		LineTypeLogistics, LineTypeOther:
		return true
	}
	return false
}

// DecisionType classifies a human-review queue entry.
type DecisionType string

const (
	DecisionPotentialDuplicate DecisionType = "POTENTIAL_DUPLICATE"
	DecisionSpecConflict       DecisionType = "SPEC_CONFLICT"
	DecisionSoftMatch          DecisionType = "SOFT_MATCH"
	DecisionAmbiguousScope     DecisionType = "AMBIGUOUS_SCOPE"
	DecisionLaborOnly          DecisionType = "LABOR_ONLY"
	DecisionBrandConflict      DecisionType = "BRAND_CONFLICT"
)

func (d DecisionType) IsValid() bool {
	switch d {
	case DecisionPotentialDuplicate, DecisionSpecConflict, DecisionSoftMatch,
		DecisionAmbiguousScope, DecisionLaborOnly, DecisionBrandConflict:
		return true
	}
	return false
}

// MatchType is the outcome of comparing a line amount against a quote.
type MatchType string

const (
	MatchExact MatchType = "EXACT"
	MatchSoft  MatchType = "SOFT"
	MatchNone  MatchType = "NO_MATCH"
)

// Severity ranks a detected conflict.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// SourceType records where an estimated price came from.
type SourceType string

const (
	SourceQuoteExtract  SourceType = "QUOTE_EXTRACT"
	SourceRatebookV1    SourceType = "RATEBOOK_V1"
	SourceLogisticsRule SourceType = "LOGISTICS_RULE"
	SourceUserOverride  SourceType = "USER_OVERRIDE"
)

func (s SourceType) IsValid() bool {
	switch s {
	case SourceQuoteExtract, SourceRatebookV1, SourceLogisticsRule, SourceUserOverride:
		return true
	}
	return false
}

// BidPosition places a subcontractor bid relative to the market range.
type BidPosition string

const (
	BidExtremeLow  BidPosition = "EXTREME_LOW"
	BidBelowMarket BidPosition = "BELOW_MARKET"
	BidMarket      BidPosition = "MARKET"
	BidAboveMarket BidPosition = "ABOVE_MARKET"
	BidExtremeHigh BidPosition = "EXTREME_HIGH"
)
