// internal/engine/pipeline_test.go
package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costguard/internal/common/logger"
	"costguard/internal/engine/conflicts"
	"costguard/internal/engine/dedupe"
	"costguard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestPipeline(t *testing.T) *Pipeline {
	return NewPipeline(Options{}, logger.NewTestLogger(t))
}

// createRemodelSnapshot builds a project with one authoritative wrapper
// whose flooring line corresponds to a standalone sub quote, named in the
// wrapper notes.
func createRemodelSnapshot() *ProjectInput {
	return &ProjectInput{
		ProjectID: "project-1",
		Quotes: []models.Quote{
			{
				ID:                 "wrapper-1",
				VendorName:         "GC Partners",
				IsWrapper:          true,
				ReconciliationRule: models.RuleAuthoritative,
				Total:              models.Amount(45000),
				Status:             models.QuoteStatusVerified,
				Notes:              "Includes flooring per ABC Flooring quote Q-118",
			},
			{
				ID:          "sub-1",
				VendorName:  "ABC Flooring",
				QuoteNumber: "Q-118",
				Subtotal:    models.Amount(5000),
				Total:       models.Amount(5350),
				Status:      models.QuoteStatusPending,
			},
		},
		Lines: []models.Line{
			{
				ID:          "line-1",
				QuoteID:     "wrapper-1",
				Description: "Flooring allowance",
				Amount:      models.Amount(5350),
			},
		},
	}
}

// ==========================
// Pipeline Runs
// ==========================

func TestPipeline_Run_AutoLinksEvidencedDuplicate(t *testing.T) {
	pipeline := createTestPipeline(t)

	report, err := pipeline.Run(context.Background(), createRemodelSnapshot())

	require.NoError(t, err)
	require.NotNil(t, report.Summary)

	require.Len(t, report.DedupeResults, 1)
	assert.Equal(t, dedupe.ActionAutoLinked, report.DedupeResults[0].Action)
	assert.Equal(t, "sub-1", report.DedupeResults[0].LinkedQuoteID)
	assert.Empty(t, report.DecisionDrafts)

	require.Len(t, report.WrapperResults, 1)
	assert.True(t, report.WrapperResults[0].Validation.IsValid)

	assert.Equal(t, 45000.0, report.Summary.VerifiedCost,
		"the wrapper total is the cost of record; the linked sub must not add to it")
}

func TestPipeline_Run_RoutesUnevidencedDuplicateToReview(t *testing.T) {
	pipeline := createTestPipeline(t)

	input := createRemodelSnapshot()
	input.Quotes[0].Notes = "Includes flooring allowance"

	report, err := pipeline.Run(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, report.DedupeResults, 1)
	assert.Equal(t, dedupe.ActionPotentialDuplicate, report.DedupeResults[0].Action)
	require.Len(t, report.DecisionDrafts, 1)
	assert.Equal(t, models.DecisionPotentialDuplicate, report.DecisionDrafts[0].DecisionType)
	assert.Equal(t, 1, report.Summary.DecisionCount)
}

func TestPipeline_Run_GapAndConflictScans(t *testing.T) {
	pipeline := createTestPipeline(t)

	input := &ProjectInput{
		ProjectID: "project-2",
		PlanText:  "Andersen windows throughout, entry door 36x80",
		Quotes: []models.Quote{
			{
				ID:         "q1",
				VendorName: "Window Co",
				Status:     models.QuoteStatusPending,
				Total:      models.Amount(12000),
				RawText:    "Pella windows, entry door 32x80. Exterior siding NOT IN ESTIMATE",
			},
		},
		Lines: []models.Line{
			{ID: "l1", QuoteID: "q1", Description: "Pella casement windows", ScopeTag: "windows", Quantity: models.Amount(14)},
		},
		TakeoffItems: []conflicts.TakeoffItem{{ScopeTag: "windows", Quantity: 10}},
	}

	report, err := pipeline.Run(context.Background(), input)

	require.NoError(t, err)

	require.NotEmpty(t, report.GapDrafts)
	assert.Equal(t, "EXTERIOR SIDING", report.GapDrafts[0].ScopeTag)

	require.NotNil(t, report.ConflictReport)
	assert.True(t, report.ConflictReport.HasBlockingIssues)
	assert.NotEmpty(t, report.ConflictReport.QuantityMismatches)
	assert.NotEmpty(t, report.DecisionDrafts)

	assert.Equal(t, len(report.GapDrafts), report.Summary.GapCount)
	assert.Equal(t, len(report.DecisionDrafts), report.Summary.DecisionCount)
}

func TestPipeline_Run_EmptyProject(t *testing.T) {
	pipeline := createTestPipeline(t)

	report, err := pipeline.Run(context.Background(), &ProjectInput{ProjectID: "empty"})

	require.NoError(t, err)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 0.0, report.Summary.VerifiedCost)
	assert.Equal(t, models.ConfidenceLow, report.Summary.Confidence)
	assert.Empty(t, report.DedupeResults)
	assert.Nil(t, report.ConflictReport)
}

func TestPipeline_Run_SkipsWrapperCandidates(t *testing.T) {
	pipeline := createTestPipeline(t)

	// Two wrappers naming each other must not dedupe against each other;
	// wrapper-vs-wrapper correspondence is a human call.
	input := &ProjectInput{
		ProjectID: "project-3",
		Quotes: []models.Quote{
			{
				ID: "w1", VendorName: "GC One", IsWrapper: true,
				ReconciliationRule: models.RuleAuthoritative,
				Total:              models.Amount(40000),
				Notes:              "supersedes GC Two proposal",
			},
			{
				ID: "w2", VendorName: "GC Two", IsWrapper: true,
				ReconciliationRule: models.RuleReferenceOnly,
				Total:              models.Amount(40000),
			},
		},
		Lines: []models.Line{
			{ID: "l1", QuoteID: "w1", Description: "Full scope", Amount: models.Amount(40000)},
		},
	}

	report, err := pipeline.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Empty(t, report.DedupeResults)
	assert.Len(t, report.WrapperResults, 2)
}
