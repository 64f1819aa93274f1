// internal/engine/conflicts/engine.go
// Package conflicts detects contradictions between what the plan specifies
// and what a quote actually delivers: a different brand in the same product
// category, a different door or window size, a quantity well off the
// takeoff.
package conflicts

import (
	"fmt"
	"math"
	"strings"

	"costguard/internal/common/logger"
	"costguard/internal/models"
	"costguard/internal/ratebook"
)

const EngineName = "conflicts"

type Config struct {
	// QuantityTolerancePercent is the variance above which a quantity
	// mismatch becomes a WARNING; above CriticalQuantityPercent it is
	// CRITICAL.
	QuantityTolerancePercent float64
	CriticalQuantityPercent  float64
}

func DefaultConfig() *Config {
	return &Config{
		QuantityTolerancePercent: 10,
		CriticalQuantityPercent:  25,
	}
}

type Engine struct {
	config    *Config
	ratebook  *ratebook.Ratebook
	extractor DimensionExtractor
	logger    logger.Logger
}

func NewEngine(config *Config, rb *ratebook.Ratebook, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if rb == nil {
		rb = ratebook.Default()
	}
	return &Engine{
		config:    config,
		ratebook:  rb,
		extractor: NewRegexExtractor(),
		logger:    log.WithFields(map[string]interface{}{"engine": EngineName}),
	}
}

// WithExtractor swaps the dimension-parsing strategy.
func (e *Engine) WithExtractor(x DimensionExtractor) *Engine {
	e.extractor = x
	return e
}

// ScanForBrandConflicts checks every product category with a known brand
// catalog: if the plan names one brand and any quote line names a different
// brand in the same category, that is CRITICAL. Same-brand mentions are not
// conflicts. Brand matching is deliberately a plain case-insensitive
// substring check, favoring recall over precision.
func (e *Engine) ScanForBrandConflicts(planText string, quoteLines []models.Line) []Conflict {
	planLower := strings.ToLower(planText)
	var conflicts []Conflict

	for category, brands := range e.ratebook.BrandCatalog {
		planBrand := ""
		for _, b := range brands {
			if strings.Contains(planLower, strings.ToLower(b)) {
				planBrand = b
				break
			}
		}
		if planBrand == "" {
			continue
		}

		for _, line := range quoteLines {
			lineLower := strings.ToLower(line.Description)
			for _, b := range brands {
				if b == planBrand || !strings.Contains(lineLower, strings.ToLower(b)) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					ConflictType: ConflictBrand,
					Severity:     models.SeverityCritical,
					Category:     category,
					Description: fmt.Sprintf("Plan specifies %s %s but quote line delivers %s",
						planBrand, category, b),
					PlanValue:  planBrand,
					QuoteValue: b,
					LineID:     line.ID,
				})
			}
		}
	}

	return conflicts
}

// ScanForSpecVariances compares the first parsed dimension pair from the
// plan against the first from the quote. Any width or height disagreement is
// CRITICAL: a 36x80 door opening will not take a 32x80 door.
func (e *Engine) ScanForSpecVariances(planText, quoteText string) []Conflict {
	planDims := e.extractor.Extract(planText)
	quoteDims := e.extractor.Extract(quoteText)
	if len(planDims) == 0 || len(quoteDims) == 0 {
		return nil
	}

	plan := planDims[0]
	quote := quoteDims[0]
	if plan.Width == quote.Width && plan.Height == quote.Height {
		return nil
	}

	return []Conflict{{
		ConflictType: ConflictDimension,
		Severity:     models.SeverityCritical,
		Description: fmt.Sprintf("Plan dimension %s does not match quote dimension %s",
			plan.Raw, quote.Raw),
		PlanValue:  plan.Raw,
		QuoteValue: quote.Raw,
	}}
}

// DetectQuantityMismatches matches takeoff items to quote lines by scope tag
// and flags variances beyond tolerance.
func (e *Engine) DetectQuantityMismatches(takeoffItems []TakeoffItem, quoteLines []models.Line) []QuantityMismatch {
	var mismatches []QuantityMismatch

	for _, item := range takeoffItems {
		for _, line := range quoteLines {
			if !strings.EqualFold(item.ScopeTag, line.ScopeTag) || line.Quantity == nil {
				continue
			}

			variance := quantityVariancePercent(item.Quantity, *line.Quantity)
			if variance <= e.config.QuantityTolerancePercent {
				continue
			}

			severity := models.SeverityWarning
			if variance > e.config.CriticalQuantityPercent {
				severity = models.SeverityCritical
			}

			mismatches = append(mismatches, QuantityMismatch{
				ScopeTag:        item.ScopeTag,
				TakeoffQuantity: item.Quantity,
				QuoteQuantity:   *line.Quantity,
				VariancePercent: variance,
				Severity:        severity,
				LineID:          line.ID,
			})
		}
	}

	return mismatches
}

// quantityVariancePercent measures a quote quantity against its takeoff
// baseline. A zero baseline with a nonzero quote is 100% variance, not Inf.
func quantityVariancePercent(takeoff, quote float64) float64 {
	diff := math.Abs(quote - takeoff)
	if diff == 0 {
		return 0
	}
	if takeoff == 0 {
		return 100
	}
	return diff / takeoff * 100
}

// RunConflictScan composes all three scans. Decisions are raised for brand
// conflicts always and for CRITICAL dimension variances; quantity mismatches
// stay informational because they are addressed through the gap/re-quote
// flow, not the review queue.
func (e *Engine) RunConflictScan(input *Input) *Output {
	output := &Output{}

	brandConflicts := e.ScanForBrandConflicts(input.PlanText, input.QuoteLines)
	specConflicts := e.ScanForSpecVariances(input.PlanText, input.QuoteText)
	output.Conflicts = append(output.Conflicts, brandConflicts...)
	output.Conflicts = append(output.Conflicts, specConflicts...)
	output.QuantityMismatches = e.DetectQuantityMismatches(input.TakeoffItems, input.QuoteLines)

	for _, c := range brandConflicts {
		output.Decisions = append(output.Decisions, models.DecisionDraft{
			DecisionType: models.DecisionBrandConflict,
			Title:        fmt.Sprintf("Brand conflict in %s", c.Category),
			Description:  c.Description,
			LineID:       c.LineID,
			Evidence: map[string]interface{}{
				"category":   c.Category,
				"planBrand":  c.PlanValue,
				"quoteBrand": c.QuoteValue,
			},
		})
	}

	for _, c := range specConflicts {
		if c.Severity != models.SeverityCritical {
			continue
		}
		output.Decisions = append(output.Decisions, models.DecisionDraft{
			DecisionType: models.DecisionSpecConflict,
			Title:        "Dimension mismatch between plan and quote",
			Description:  c.Description,
			Evidence: map[string]interface{}{
				"planDimension":  c.PlanValue,
				"quoteDimension": c.QuoteValue,
			},
		})
	}

	for _, c := range output.Conflicts {
		if c.Severity == models.SeverityCritical {
			output.HasBlockingIssues = true
			break
		}
	}

	if len(output.Conflicts) > 0 || len(output.QuantityMismatches) > 0 {
		e.logger.Info("conflict scan complete", map[string]interface{}{
			"conflicts":          len(output.Conflicts),
			"quantityMismatches": len(output.QuantityMismatches),
			"blocking":           output.HasBlockingIssues,
		})
	}

	return output
}
