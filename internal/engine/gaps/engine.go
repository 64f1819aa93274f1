// internal/engine/gaps/engine.go
// Package gaps surfaces scope that is present in intent but missing from
// priced deliverables. Three independent sources feed it: exclusion language
// in quote text, labor-only pricing with no matching materials, and the
// ratebook's scope-dependency rules. A gap never carries an invented number:
// when no rate can justify an estimate, the estimate stays null.
package gaps

import (
	"fmt"
	"strings"

	"costguard/internal/common/logger"
	"costguard/internal/models"
	"costguard/internal/ratebook"
)

const EngineName = "gaps"

// Exclusion language vendors use to push scope out of an estimate. Matched
// case-insensitively as substrings; longer phrases first so "N.I.C." does
// not lose to "NIC".
var exclusionKeywords = []string{
	"NOT IN ESTIMATE",
	"NOT INCLUDED",
	"ALLOWANCE ONLY",
	"BY OTHERS",
	"EXCLUDED",
	"N.I.C.",
	"NIC",
}

// Labor-only language. A labor-only line structurally cannot cover
// materials, so the absence is always flagged, never assumed covered.
var laborOnlyKeywords = []string{
	"LABOR ONLY",
	"INSTALL ONLY",
	"INSTALLATION ONLY",
	"MATERIALS SEPARATE",
	"MATERIALS BY OWNER",
	"MBO",
}

// Filler words that make bad scope names.
var trivialWords = map[string]bool{
	"THE": true, "AND": true, "FOR": true, "ALL": true, "ANY": true,
	"SEE": true, "PER": true, "ARE": true, "IS": true, "OF": true,
	"TO": true, "IN": true, "ON": true, "BE": true, "WILL": true,
}

type Engine struct {
	ratebook *ratebook.Ratebook
	logger   logger.Logger
}

func NewEngine(rb *ratebook.Ratebook, log logger.Logger) *Engine {
	if rb == nil {
		rb = ratebook.Default()
	}
	return &Engine{
		ratebook: rb,
		logger:   log.WithFields(map[string]interface{}{"engine": EngineName}),
	}
}

// ContainsExclusionKeyword scans text for exclusion language and
// heuristically names the excluded scope from the last one or two
// non-trivial words before the keyword.
func ContainsExclusionKeyword(text string) ExclusionHit {
	upper := strings.ToUpper(text)

	for _, kw := range exclusionKeywords {
		idx := strings.Index(upper, kw)
		if idx < 0 {
			continue
		}
		return ExclusionHit{
			Found:     true,
			Keyword:   kw,
			ScopeHint: scopeHintBefore(upper[:idx]),
		}
	}

	return ExclusionHit{}
}

// scopeHintBefore extracts the likely scope name from the tail of the text
// preceding an exclusion keyword. Best effort only.
func scopeHintBefore(prefix string) string {
	words := strings.FieldsFunc(prefix, func(r rune) bool {
		return !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})

	picked := make([]string, 0, 2)
	for i := len(words) - 1; i >= 0 && len(picked) < 2; i-- {
		w := words[i]
		if len(w) < 3 || trivialWords[w] {
			continue
		}
		picked = append([]string{w}, picked...)
	}

	return strings.Join(picked, " ")
}

// IsLaborOnly scans text for labor-only language.
func IsLaborOnly(text string) (bool, string) {
	upper := strings.ToUpper(text)
	for _, kw := range laborOnlyKeywords {
		if strings.Contains(upper, kw) {
			return true, kw
		}
	}
	return false, ""
}

// ScanQuotesForExclusions emits a gap for every quote whose text pushes
// scope out of the estimate.
func (e *Engine) ScanQuotesForExclusions(quotes []models.Quote) []models.GapDraft {
	var drafts []models.GapDraft

	for _, q := range quotes {
		hit := ContainsExclusionKeyword(q.CombinedText())
		if !hit.Found {
			continue
		}

		scope := hit.ScopeHint
		if scope == "" {
			scope = "UNSPECIFIED"
		}

		drafts = append(drafts, models.GapDraft{
			ScopeTag:    scope,
			Description: fmt.Sprintf("%s excluded from quote by %s", scope, q.VendorName),
			Source:      fmt.Sprintf("Exclusion keyword %q in quote %s", hit.Keyword, q.VendorName),
			Confidence:  models.ConfidenceLow,
		})
	}

	return drafts
}

// ScanLinesForLaborOnly emits a materials gap for every line that prices
// labor without materials, whether the text says so or the line type does.
func (e *Engine) ScanLinesForLaborOnly(lines []models.Line) []models.GapDraft {
	var drafts []models.GapDraft

	for _, l := range lines {
		laborOnly, keyword := IsLaborOnly(l.Description)
		if !laborOnly && l.LineType == models.LineTypeLabor {
			laborOnly = true
			keyword = "line type LABOR"
		}
		if !laborOnly {
			continue
		}

		scope := strings.ToUpper(strings.TrimSpace(l.ScopeTag))
		if scope == "" {
			scope = "UNSPECIFIED"
		}

		drafts = append(drafts, models.GapDraft{
			ScopeTag:    scope + "_MATERIALS",
			Description: fmt.Sprintf("Materials needed for labor-only line %q", l.Description),
			Source:      fmt.Sprintf("Labor-only pricing (%s) on line %q", keyword, l.Description),
			Confidence:  models.ConfidenceLow,
		})
	}

	return drafts
}

// ScanScopeDependencies cross-checks the ratebook's dependency rules against
// all line text: a trigger scope with none of its required companions priced
// anywhere is missing scope, estimated from the ratebook when a rate exists.
func (e *Engine) ScanScopeDependencies(lines []models.Line) []models.GapDraft {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.ToLower(l.Description))
		sb.WriteByte('\n')
		sb.WriteString(strings.ToLower(l.ScopeTag))
		sb.WriteByte('\n')
	}
	corpus := sb.String()

	var drafts []models.GapDraft

	for _, rule := range e.ratebook.ScopeDependencies {
		triggered := false
		for _, kw := range rule.TriggerKeywords {
			if strings.Contains(corpus, strings.ToLower(kw)) {
				triggered = true
				break
			}
		}
		if !triggered {
			continue
		}

		satisfied := false
		for _, kw := range rule.RequiredKeywords {
			if strings.Contains(corpus, strings.ToLower(kw)) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}

		draft := models.GapDraft{
			ScopeTag:    rule.GapScopeTag,
			Description: rule.GapDescription,
			Source: fmt.Sprintf("Dependency Rule: %s requires one of %s",
				strings.Join(rule.TriggerKeywords, "/"), strings.Join(rule.RequiredKeywords, "/")),
			Confidence: models.ConfidenceLow,
		}

		if rate, ok := e.ratebook.MarketRange(rule.RateKey); ok {
			draft.EstimatedLow = models.Amount(rate.Low)
			draft.EstimatedMid = models.Amount(rate.Likely)
			draft.EstimatedHigh = models.Amount(rate.High)
			draft.RateSource = rate.Source.Ref
			draft.Confidence = rate.Confidence
		}

		drafts = append(drafts, draft)
	}

	return drafts
}

// ConsolidateGaps merges gaps sharing a scope tag. Sources are concatenated
// so the audit trail survives the merge; the entry with the largest high
// estimate contributes its low/mid/high/rate-source together so a merged gap
// never mixes ranges. Consolidation is a fixpoint after one pass.
func ConsolidateGaps(drafts []models.GapDraft) []models.GapDraft {
	byScope := make(map[string]int)
	var out []models.GapDraft

	for _, d := range drafts {
		key := strings.ToUpper(d.ScopeTag)
		idx, seen := byScope[key]
		if !seen {
			byScope[key] = len(out)
			out = append(out, d)
			continue
		}

		existing := &out[idx]
		if d.Source != "" && !strings.Contains(existing.Source, d.Source) {
			existing.Source = existing.Source + "; " + d.Source
		}

		if models.Value(d.EstimatedHigh) > models.Value(existing.EstimatedHigh) {
			existing.EstimatedLow = d.EstimatedLow
			existing.EstimatedMid = d.EstimatedMid
			existing.EstimatedHigh = d.EstimatedHigh
			existing.RateSource = d.RateSource
			existing.Confidence = d.Confidence
		}
	}

	return out
}

// DetectGaps runs all three scans and consolidates the results.
func (e *Engine) DetectGaps(input *Input) *Output {
	var drafts []models.GapDraft
	drafts = append(drafts, e.ScanQuotesForExclusions(input.Quotes)...)
	drafts = append(drafts, e.ScanLinesForLaborOnly(input.Lines)...)
	drafts = append(drafts, e.ScanScopeDependencies(input.Lines)...)

	consolidated := ConsolidateGaps(drafts)

	if len(consolidated) > 0 {
		e.logger.Info("gap scan complete", map[string]interface{}{
			"rawGaps":          len(drafts),
			"consolidatedGaps": len(consolidated),
		})
	}

	return &Output{Gaps: consolidated}
}
