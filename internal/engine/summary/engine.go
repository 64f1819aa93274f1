// internal/engine/summary/engine.go
// Package summary aggregates verified, pending, and estimated cost across
// the whole quote set into one confidence-rated project total. The wrapper
// exclusivity invariant lives here: a quote never contributes twice, and an
// authoritative wrapper's total and its children's totals are never both
// counted.
package summary

import (
	"costguard/internal/common/logger"
	"costguard/internal/models"
)

const EngineName = "summary"

type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{
		logger: log.WithFields(map[string]interface{}{"engine": EngineName}),
	}
}

// CalculateVerifiedCost runs two passes. First, verified AUTHORITATIVE
// wrappers contribute their own totals and their direct children become
// accounted for. Second, verified non-wrapper ADDITIVE quotes outside that
// set are summed in. REFERENCE_ONLY never contributes.
func (e *Engine) CalculateVerifiedCost(quotes []models.Quote) float64 {
	total := 0.0
	accountedChildren := make(map[string]bool)

	for _, q := range quotes {
		if !q.IsWrapper || q.ReconciliationRule != models.RuleAuthoritative ||
			q.Status != models.QuoteStatusVerified {
			continue
		}
		total += models.Value(q.Total)
		for _, child := range quotes {
			if child.ParentQuoteID == q.ID {
				accountedChildren[child.ID] = true
			}
		}
	}

	for _, q := range quotes {
		if q.IsWrapper || q.ReconciliationRule != models.RuleAdditive ||
			q.Status != models.QuoteStatusVerified {
			continue
		}
		if accountedChildren[q.ID] {
			continue
		}
		total += models.Value(q.Total)
	}

	return total
}

// CalculatePendingCost sums quotes still waiting on verification or a human
// decision. Informational only, never part of verified cost.
func (e *Engine) CalculatePendingCost(quotes []models.Quote) float64 {
	total := 0.0
	for _, q := range quotes {
		if q.Status == models.QuoteStatusPending || q.Status == models.QuoteStatusDecisionRequired {
			total += models.Value(q.Total)
		}
	}
	return total
}

// CalculateEstimatedCost sums gap estimates over unresolved gaps only; a
// resolved gap's cost is presumed captured by the quote that resolved it.
func (e *Engine) CalculateEstimatedCost(gaps []models.Gap) EstimatedCost {
	var est EstimatedCost
	for _, g := range gaps {
		if g.Resolved {
			continue
		}
		est.Low += models.Value(g.EstimatedLow)
		est.Mid += models.Value(g.EstimatedMid)
		est.High += models.Value(g.EstimatedHigh)
	}
	return est
}

// DetermineConfidence rates the whole estimate. A project mostly covered by
// verified quotes with few open gaps and decisions is HIGH; a project that
// is mostly estimates, or has nothing in it at all, is LOW.
func (e *Engine) DetermineConfidence(verified, pending, estimatedMid float64, gapCount, decisionCount int) models.Confidence {
	total := verified + pending + estimatedMid
	if total == 0 {
		return models.ConfidenceLow
	}

	verifiedFraction := verified / total

	if verifiedFraction > 0.8 && gapCount < 2 && decisionCount < 2 {
		return models.ConfidenceHigh
	}
	if verifiedFraction > 0.5 && gapCount < 5 && decisionCount < 5 {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

// GenerateProjectSummary composes the cost calculations into one immutable
// snapshot, recomputable at any time from current state.
func (e *Engine) GenerateProjectSummary(input *Input) *ProjectSummary {
	verified := e.CalculateVerifiedCost(input.Quotes)
	pending := e.CalculatePendingCost(input.Quotes)
	estimated := e.CalculateEstimatedCost(input.Gaps)

	gapCount := 0
	for _, g := range input.Gaps {
		if !g.Resolved {
			gapCount++
		}
	}

	decisionCount := 0
	for _, d := range input.Decisions {
		if !d.Resolved {
			decisionCount++
		}
	}

	confidence := e.DetermineConfidence(verified, pending, estimated.Mid, gapCount, decisionCount)

	e.logger.Debug("project summary generated", map[string]interface{}{
		"verifiedCost":  verified,
		"pendingCost":   pending,
		"estimatedMid":  estimated.Mid,
		"gapCount":      gapCount,
		"decisionCount": decisionCount,
		"confidence":    confidence,
	})

	return &ProjectSummary{
		VerifiedCost:  verified,
		PendingCost:   pending,
		EstimatedCost: estimated,
		GapCount:      gapCount,
		DecisionCount: decisionCount,
		Confidence:    confidence,
	}
}
