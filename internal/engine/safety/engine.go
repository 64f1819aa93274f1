// internal/engine/safety/engine.go
// Package safety validates the Wrapper Truth Rule and detects the hidden-tax
// failure mode at the quote level. Under an AUTHORITATIVE wrapper the
// wrapper's own total is the cost of record; children exist for audit
// visibility only and are never summed into it.
package safety

import (
	"fmt"
	"math"

	"costguard/internal/common/logger"
	"costguard/internal/models"
)

const EngineName = "safety"

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

// AuditWrapperForTaxTrap compares a wrapper total against the sum of its
// children. A positive variance inside the tax band is the classic signature
// of children linked to subtotals while the wrapper carries the real,
// tax-inclusive number.
func (e *Engine) AuditWrapperForTaxTrap(wrapperTotal, childrenSum float64) AuditResult {
	result := AuditResult{
		WrapperTotal: wrapperTotal,
		ChildrenSum:  childrenSum,
	}

	if wrapperTotal == 0 {
		if childrenSum == 0 {
			result.Status = AuditOK
			return result
		}
		// Zero baseline counts as full variance, not Inf.
		result.VariancePercent = 100
		result.Status = AuditVarianceWarning
		result.Recommendation = "Wrapper has no total but children carry cost; verify the wrapper extraction"
		return result
	}

	variance := (wrapperTotal - childrenSum) / wrapperTotal * 100
	result.VariancePercent = variance

	switch {
	case math.Abs(variance) < e.config.ExactBandPercent:
		result.Status = AuditOK
	case variance >= e.config.TaxTrapBandLowPercent && variance <= e.config.TaxTrapBandHighPercent:
		result.Status = AuditTaxTrapDetected
		result.Recommendation = fmt.Sprintf(
			"Wrapper runs %.1f%% ahead of its children, typical of sales tax plus freight. Re-verify each child is linked to its total, not its subtotal.",
			variance)
	case variance > e.config.TaxTrapBandHighPercent:
		result.Status = AuditVarianceWarning
		result.Recommendation = "Children fall well short of the wrapper total; line items may be missing"
	case variance < e.config.VarianceWarningFloorPercent:
		result.Status = AuditVarianceWarning
		result.Recommendation = "Children exceed the wrapper total; a cost is probably counted twice"
	default:
		result.Status = AuditOK
	}

	return result
}

// ValidateWrapperTruth enforces the structural invariants of a wrapper quote
// and returns its verified cost under its reconciliation rule.
func (e *Engine) ValidateWrapperTruth(wrapper *models.Quote, children []models.Quote, wrapperLines []models.Line) ValidationResult {
	result := ValidationResult{IsValid: true}

	if !wrapper.IsWrapper {
		result.IsValid = false
		result.Issues = append(result.Issues, "quote is not marked as a wrapper")
	}
	if !wrapper.ReconciliationRule.IsValid() {
		result.IsValid = false
		result.Issues = append(result.Issues, "wrapper has no reconciliation rule")
	}
	if !result.IsValid {
		return result
	}

	childrenSum := 0.0
	for _, c := range children {
		childrenSum += models.Value(c.Total)
	}

	switch wrapper.ReconciliationRule {
	case models.RuleAuthoritative:
		if wrapper.Total == nil {
			result.IsValid = false
			result.Issues = append(result.Issues, "authoritative wrapper has no total")
			return result
		}
		result.VerifiedCost = *wrapper.Total

		audit := e.AuditWrapperForTaxTrap(*wrapper.Total, childrenSum)
		result.Audit = &audit
		if audit.Status != AuditOK {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", audit.Status, audit.Recommendation))
		}

		if len(wrapperLines) > 0 {
			lineSum := 0.0
			for _, l := range wrapperLines {
				lineSum += models.Value(l.Amount)
			}
			lineVariance := math.Abs(*wrapper.Total - lineSum)
			if lineVariance >= 0.01 && lineVariance/(*wrapper.Total)*100 >= e.config.ExactBandPercent {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"wrapper line items sum to %.2f but the wrapper total is %.2f", lineSum, *wrapper.Total))
			}
		}

	case models.RuleAdditive:
		result.VerifiedCost = childrenSum

	case models.RuleReferenceOnly:
		result.VerifiedCost = 0
	}

	if len(result.Warnings) > 0 {
		e.logger.Warn("wrapper validation produced warnings", map[string]interface{}{
			"quoteId":  wrapper.ID,
			"warnings": result.Warnings,
		})
	}

	return result
}

// EvaluateSoftMatchSafety is the stand-alone gate other flows reuse: without
// text evidence a soft match is always rejected, regardless of how small the
// variance is.
func (e *Engine) EvaluateSoftMatchSafety(variancePercent float64, hasTextEvidence bool, lineID, quoteID string) SoftMatchSafety {
	if variancePercent > e.config.SoftMatchVariancePercent {
		return SoftMatchSafety{
			Approved: false,
			Reason: fmt.Sprintf("variance %.2f%% exceeds the %.0f%% soft-match tolerance",
				variancePercent, e.config.SoftMatchVariancePercent),
		}
	}

	if hasTextEvidence {
		return SoftMatchSafety{
			Approved: true,
			Reason:   fmt.Sprintf("soft match within %.2f%% backed by text evidence", variancePercent),
		}
	}

	return SoftMatchSafety{
		Approved: false,
		Reason:   "soft match has no text evidence; routing to human review",
		Decision: &models.DecisionDraft{
			DecisionType: models.DecisionSoftMatch,
			Title:        "Soft match needs confirmation",
			Description: fmt.Sprintf(
				"Amounts agree within %.2f%% but nothing in the quote text ties the records together. Confirm before linking.",
				variancePercent),
			LineID:  lineID,
			QuoteID: quoteID,
			Evidence: map[string]interface{}{
				"variancePercent": variancePercent,
				"hasTextEvidence": false,
			},
		},
	}
}

// CalculateConfidence is a total, deterministic confidence rating. Raising
// variance with all other inputs fixed can only move the result toward LOW.
func (e *Engine) CalculateConfidence(input ConfidenceInput) models.Confidence {
	if input.SourceType == models.SourceQuoteExtract {
		if input.HasTextEvidence && input.VariancePercent < 1 {
			return models.ConfidenceHigh
		}
		if input.VariancePercent < 5 {
			return models.ConfidenceHigh
		}
		return models.ConfidenceMedium
	}

	if input.SourceType == models.SourceRatebookV1 && input.HasRanges {
		return models.ConfidenceMedium
	}

	return models.ConfidenceLow
}

// BenchmarkSubBid places a subcontractor bid against the market range for
// its scope. Variance is measured against the likely value, guarded so a
// zero market never divides.
func (e *Engine) BenchmarkSubBid(bid float64, market models.CostRange) BidBenchmark {
	variance := (bid - market.Likely) / math.Max(market.Likely, 1) * 100

	result := BidBenchmark{
		Bid:             bid,
		Market:          market,
		VariancePercent: variance,
	}

	switch {
	case bid > market.High && variance > e.config.ExtremeBidVariancePercent:
		result.Position = models.BidExtremeHigh
	case bid > market.High:
		result.Position = models.BidAboveMarket
	case bid < market.Low && variance < -e.config.ExtremeBidVariancePercent:
		result.Position = models.BidExtremeLow
	case bid < market.Low:
		result.Position = models.BidBelowMarket
	default:
		result.Position = models.BidMarket
	}

	return result
}
