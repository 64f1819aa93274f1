// internal/engine/dedupe/engine.go
// Package dedupe decides whether a parent line's amount and a candidate
// child quote are the same real-world cost, and whether that correspondence
// may be trusted automatically. The central safety contract: a line is never
// auto-linked without text evidence, no matter how exact the numbers are.
// A numeric coincidence alone proves nothing.
package dedupe

import (
	"fmt"
	"math"
	"strings"

	"costguard/internal/common/logger"
	"costguard/internal/models"
)

const EngineName = "dedupe"

type Engine struct {
	config *Config
	logger logger.Logger
}

func NewEngine(config *Config, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		logger: log.WithFields(map[string]interface{}{"engine": EngineName}),
	}
}

// IsExactMatch reports whether two amounts are equal within currency
// rounding tolerance.
func (e *Engine) IsExactMatch(a, b float64) bool {
	return math.Abs(a-b) < e.config.ExactMatchTolerance
}

// IsSoftMatch reports whether two amounts differ by more than zero and at
// most the soft-match tolerance. Zero variance is EXACT, not SOFT.
func (e *Engine) IsSoftMatch(a, b float64) bool {
	v := VariancePercent(a, b)
	return v > 0 && v <= e.config.SoftMatchVariancePercent
}

// VariancePercent returns |a-b| / max(a,b) * 100. A zero baseline against a
// nonzero amount is 100% variance, never Inf or NaN.
func VariancePercent(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff == 0 {
		return 0
	}
	base := math.Max(a, b)
	if base <= 0 {
		return 100
	}
	return diff / base * 100
}

// HasTextEvidence reports whether the child quote's vendor name or quote
// number literally appears in the parent quote's combined notes and raw
// text. This is the only acceptable evidence for linking: internal IDs must
// never be used, because an ID match proves nothing a human could verify.
func HasTextEvidence(parent *models.Quote, child *models.Quote) (bool, string) {
	haystack := strings.ToLower(parent.CombinedText())
	if haystack == "" {
		return false, ""
	}

	vendor := strings.TrimSpace(child.VendorName)
	if vendor != "" && strings.Contains(haystack, strings.ToLower(vendor)) {
		return true, fmt.Sprintf("vendor name %q found in parent quote text", vendor)
	}

	number := strings.TrimSpace(child.QuoteNumber)
	if number != "" && strings.Contains(haystack, strings.ToLower(number)) {
		return true, fmt.Sprintf("quote number %q found in parent quote text", number)
	}

	return false, ""
}

// CheckTaxTrap detects a parent line priced to a child's subtotal while the
// child's real total (subtotal + tax + freight) is higher. Linking such a
// line silently drops the tax and freight from the project cost.
func (e *Engine) CheckTaxTrap(parentLineAmount float64, child *models.Quote) TaxTrapResult {
	result := TaxTrapResult{}

	if child.Subtotal != nil {
		result.MatchesSubtotal = e.IsExactMatch(parentLineAmount, *child.Subtotal)
	}
	if child.Total != nil {
		result.MatchesTotal = e.IsExactMatch(parentLineAmount, *child.Total)
	}

	if result.MatchesSubtotal && !result.MatchesTotal &&
		child.Subtotal != nil && child.Total != nil && *child.Total > *child.Subtotal {
		result.IsTaxTrap = true
		result.HiddenAmount = *child.Total - *child.Subtotal
	}

	return result
}

// CompareLineToQuote classifies the parent line against the candidate quote
// into EXACT, SOFT, or NO_MATCH with an advisory confidence score. The score
// is informational only; the gating policy in RunDedupeCheck is driven by
// match type and evidence, never by the score.
func (e *Engine) CompareLineToQuote(input *Input) MatchResult {
	result := MatchResult{MatchType: models.MatchNone}

	if input.ParentLine.Amount == nil {
		return result
	}
	amount := *input.ParentLine.Amount

	result.TaxTrap = e.CheckTaxTrap(amount, &input.CandidateQuote)
	result.HasEvidence, result.Evidence = HasTextEvidence(&input.ParentQuote, &input.CandidateQuote)

	exact := result.TaxTrap.MatchesTotal || result.TaxTrap.MatchesSubtotal

	variance := math.MaxFloat64
	if input.CandidateQuote.Total != nil {
		variance = math.Min(variance, VariancePercent(amount, *input.CandidateQuote.Total))
	}
	if input.CandidateQuote.Subtotal != nil {
		variance = math.Min(variance, VariancePercent(amount, *input.CandidateQuote.Subtotal))
	}
	if variance == math.MaxFloat64 {
		// No priced fields to compare against.
		return result
	}
	result.VariancePercent = variance

	switch {
	case exact:
		result.MatchType = models.MatchExact
		if result.HasEvidence {
			result.Confidence = 95
		} else {
			result.Confidence = 50
		}
	case variance > 0 && variance <= e.config.SoftMatchVariancePercent:
		result.MatchType = models.MatchSoft
		if result.HasEvidence {
			result.Confidence = 75
		} else {
			result.Confidence = 25
		}
	default:
		result.MatchType = models.MatchNone
		result.Confidence = 0
	}

	return result
}

// RunDedupeCheck applies the gating policy. NO_MATCH takes no action. A
// match with text evidence auto-links. A match without evidence, exact or
// soft, is routed to human review with a full evidence payload. Creating
// the decision and updating the line status must be persisted atomically by
// the caller.
func (e *Engine) RunDedupeCheck(input *Input) *Output {
	match := e.CompareLineToQuote(input)

	output := &Output{
		Action: ActionNone,
		Match:  match,
	}

	if match.MatchType == models.MatchNone {
		return output
	}

	if match.HasEvidence {
		output.Action = ActionAutoLinked
		output.LinkedQuoteID = input.CandidateQuote.ID
		output.LineStatus = models.QuoteStatusVerified
		e.logger.Info("line auto-linked to quote", map[string]interface{}{
			"lineId":    input.ParentLine.ID,
			"quoteId":   input.CandidateQuote.ID,
			"matchType": match.MatchType,
			"evidence":  match.Evidence,
			"taxTrap":   match.TaxTrap.IsTaxTrap,
		})
		return output
	}

	output.Action = ActionPotentialDuplicate
	output.LineStatus = models.QuoteStatusPotentialDuplicate

	decisionType := models.DecisionPotentialDuplicate
	if match.MatchType == models.MatchSoft {
		decisionType = models.DecisionSoftMatch
	}

	output.Decision = &models.DecisionDraft{
		DecisionType: decisionType,
		Title:        fmt.Sprintf("Possible duplicate: %s", input.CandidateQuote.VendorName),
		Description: fmt.Sprintf(
			"Line %q (%.2f) matches quote from %q within %.2f%% but no vendor name or quote number ties them together. Confirm before linking.",
			input.ParentLine.Description, *input.ParentLine.Amount,
			input.CandidateQuote.VendorName, match.VariancePercent),
		LineID:       input.ParentLine.ID,
		QuoteID:      input.CandidateQuote.ID,
		OtherQuoteID: input.ParentQuote.ID,
		Evidence: map[string]interface{}{
			"matchType":       string(match.MatchType),
			"lineAmount":      *input.ParentLine.Amount,
			"quoteTotal":      models.Value(input.CandidateQuote.Total),
			"quoteSubtotal":   models.Value(input.CandidateQuote.Subtotal),
			"variancePercent": match.VariancePercent,
			"vendorName":      input.CandidateQuote.VendorName,
			"isTaxTrap":       match.TaxTrap.IsTaxTrap,
		},
	}

	e.logger.Info("dedupe check routed to human review", map[string]interface{}{
		"lineId":       input.ParentLine.ID,
		"quoteId":      input.CandidateQuote.ID,
		"matchType":    match.MatchType,
		"decisionType": decisionType,
	})

	return output
}
