// internal/engine/pipeline.go
// Package engine wires the five reconciliation engines into one pipeline
// over a project snapshot. The inner engines stay pure; logging and metrics
// live here.
package engine

import (
	"context"
	"time"

	"costguard/internal/common/logger"
	"costguard/internal/common/metrics"
	"costguard/internal/engine/conflicts"
	"costguard/internal/engine/dedupe"
	"costguard/internal/engine/gaps"
	"costguard/internal/engine/safety"
	"costguard/internal/engine/summary"
	"costguard/internal/models"
	"costguard/internal/ratebook"
)

// ProjectInput is the full project snapshot a pipeline run operates on.
// It arrives from the persistence boundary as plain records; nothing here
// reaches back into storage.
type ProjectInput struct {
	ProjectID    string                  `json:"projectId"`
	Quotes       []models.Quote          `json:"quotes"`
	Lines        []models.Line           `json:"lines"`
	PlanText     string                  `json:"planText,omitempty"`
	TakeoffItems []conflicts.TakeoffItem `json:"takeoffItems,omitempty"`
	Gaps         []models.Gap            `json:"gaps,omitempty"`
	Decisions    []models.Decision       `json:"decisions,omitempty"`
}

// ProjectReport is one pipeline run's complete result: the cost summary plus
// every draft record the engines want persisted. The caller must store the
// drafts and the implied status transitions atomically so a retry cannot
// raise the same decision twice.
type ProjectReport struct {
	Summary        *summary.ProjectSummary  `json:"summary"`
	DedupeResults  []dedupe.Output          `json:"dedupeResults,omitempty"`
	WrapperResults []WrapperResult          `json:"wrapperResults,omitempty"`
	GapDrafts      []models.GapDraft        `json:"gapDrafts,omitempty"`
	ConflictReport *conflicts.Output        `json:"conflictReport,omitempty"`
	DecisionDrafts []models.DecisionDraft   `json:"decisionDrafts,omitempty"`
}

// WrapperResult pairs a wrapper quote with its truth-rule validation.
type WrapperResult struct {
	QuoteID    string                  `json:"quoteId"`
	Validation safety.ValidationResult `json:"validation"`
}

type Pipeline struct {
	dedupe    *dedupe.Engine
	safety    *safety.Engine
	gaps      *gaps.Engine
	conflicts *conflicts.Engine
	summary   *summary.Engine
	logger    logger.Logger
}

// Options carries the tunables and the regional ratebook. Zero value uses
// defaults throughout.
type Options struct {
	DedupeConfig    *dedupe.Config
	SafetyConfig    *safety.Config
	ConflictsConfig *conflicts.Config
	Ratebook        *ratebook.Ratebook
}

func NewPipeline(opts Options, log logger.Logger) *Pipeline {
	rb := opts.Ratebook
	if rb == nil {
		rb = ratebook.Default()
	}
	return &Pipeline{
		dedupe:    dedupe.NewEngine(opts.DedupeConfig, log),
		safety:    safety.NewEngine(opts.SafetyConfig, log),
		gaps:      gaps.NewEngine(rb, log),
		conflicts: conflicts.NewEngine(opts.ConflictsConfig, rb, log),
		summary:   summary.NewEngine(log),
		logger:    log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Run executes every engine over the snapshot and composes one report.
func (p *Pipeline) Run(ctx context.Context, input *ProjectInput) (*ProjectReport, error) {
	start := time.Now()
	report := &ProjectReport{}

	quotesByID := make(map[string]*models.Quote, len(input.Quotes))
	for i := range input.Quotes {
		quotesByID[input.Quotes[i].ID] = &input.Quotes[i]
	}

	// Dedupe: every wrapper line against every quote that could be its
	// child. Cross-quote pairs only; a line never matches its own quote.
	p.runDedupe(input, quotesByID, report)

	// Wrapper truth validation for every wrapper in the snapshot.
	p.runWrapperValidation(input, report)

	// Gap scan.
	gapStart := time.Now()
	gapOut := p.gaps.DetectGaps(&gaps.Input{Quotes: input.Quotes, Lines: input.Lines})
	report.GapDrafts = gapOut.Gaps
	metrics.EngineDuration.WithLabelValues(gaps.EngineName).Observe(time.Since(gapStart).Seconds())
	for range gapOut.Gaps {
		metrics.GapsDetected.WithLabelValues("scan").Inc()
	}

	// Conflict scan against the plan, when plan text is present.
	if input.PlanText != "" {
		conflictStart := time.Now()
		quoteText := ""
		for _, q := range input.Quotes {
			quoteText += q.CombinedText() + "\n"
		}
		report.ConflictReport = p.conflicts.RunConflictScan(&conflicts.Input{
			PlanText:     input.PlanText,
			QuoteText:    quoteText,
			QuoteLines:   input.Lines,
			TakeoffItems: input.TakeoffItems,
		})
		metrics.EngineDuration.WithLabelValues(conflicts.EngineName).Observe(time.Since(conflictStart).Seconds())
		report.DecisionDrafts = append(report.DecisionDrafts, report.ConflictReport.Decisions...)
		for _, c := range report.ConflictReport.Conflicts {
			metrics.ConflictsDetected.WithLabelValues(string(c.Severity)).Inc()
		}
	}

	for _, d := range report.DecisionDrafts {
		metrics.DecisionsRaised.WithLabelValues(string(d.DecisionType)).Inc()
	}

	// Summary over persisted state plus everything this run surfaced, so
	// the report shows the project as it will stand once the drafts land.
	summaryGaps := input.Gaps
	for _, draft := range report.GapDrafts {
		summaryGaps = append(summaryGaps, draft.Finalize(input.ProjectID))
	}
	summaryDecisions := input.Decisions
	for _, draft := range report.DecisionDrafts {
		summaryDecisions = append(summaryDecisions, draft.Finalize(input.ProjectID))
	}
	report.Summary = p.summary.GenerateProjectSummary(&summary.Input{
		Quotes:    input.Quotes,
		Gaps:      summaryGaps,
		Decisions: summaryDecisions,
	})

	metrics.ReconciliationRuns.WithLabelValues("ok").Inc()
	p.logger.Info("pipeline run complete", map[string]interface{}{
		"projectId":      input.ProjectID,
		"verifiedCost":   report.Summary.VerifiedCost,
		"gapDrafts":      len(report.GapDrafts),
		"decisionDrafts": len(report.DecisionDrafts),
		"durationMs":     time.Since(start).Milliseconds(),
	})

	return report, nil
}

func (p *Pipeline) runDedupe(input *ProjectInput, quotesByID map[string]*models.Quote, report *ProjectReport) {
	start := time.Now()
	defer func() {
		metrics.EngineDuration.WithLabelValues(dedupe.EngineName).Observe(time.Since(start).Seconds())
	}()

	for _, line := range input.Lines {
		parentQuote, ok := quotesByID[line.QuoteID]
		if !ok || !parentQuote.IsWrapper || line.Amount == nil {
			continue
		}

		for _, candidate := range input.Quotes {
			if candidate.ID == parentQuote.ID || candidate.IsWrapper {
				continue
			}

			out := p.dedupe.RunDedupeCheck(&dedupe.Input{
				ParentLine:     line,
				ParentQuote:    *parentQuote,
				CandidateQuote: candidate,
			})
			if out.Action == dedupe.ActionNone {
				continue
			}

			metrics.DedupeOutcomes.WithLabelValues(string(out.Action)).Inc()
			report.DedupeResults = append(report.DedupeResults, *out)
			if out.Decision != nil {
				report.DecisionDrafts = append(report.DecisionDrafts, *out.Decision)
			}
		}
	}
}

func (p *Pipeline) runWrapperValidation(input *ProjectInput, report *ProjectReport) {
	start := time.Now()
	defer func() {
		metrics.EngineDuration.WithLabelValues(safety.EngineName).Observe(time.Since(start).Seconds())
	}()

	for i := range input.Quotes {
		wrapper := &input.Quotes[i]
		if !wrapper.IsWrapper {
			continue
		}

		var children []models.Quote
		for _, q := range input.Quotes {
			if q.ParentQuoteID == wrapper.ID {
				children = append(children, q)
			}
		}
		var wrapperLines []models.Line
		for _, l := range input.Lines {
			if l.QuoteID == wrapper.ID {
				wrapperLines = append(wrapperLines, l)
			}
		}

		report.WrapperResults = append(report.WrapperResults, WrapperResult{
			QuoteID:    wrapper.ID,
			Validation: p.safety.ValidateWrapperTruth(wrapper, children, wrapperLines),
		})
	}
}
