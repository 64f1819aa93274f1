// internal/engine/conflicts/engine_test.go
package conflicts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costguard/internal/common/logger"
	"costguard/internal/models"
	"costguard/internal/ratebook"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestEngine(t *testing.T) *Engine {
	return NewEngine(nil, ratebook.Default(), logger.NewTestLogger(t))
}

// ==========================
// Brand Conflicts
// ==========================

func TestEngine_ScanForBrandConflicts(t *testing.T) {
	engine := createTestEngine(t)

	t.Run("different brand same category", func(t *testing.T) {
		planText := "All windows to be Andersen 400 series"
		lines := []models.Line{
			{ID: "l1", Description: "Supply and install Pella casement windows"},
		}

		conflicts := engine.ScanForBrandConflicts(planText, lines)

		require.Len(t, conflicts, 1)
		assert.Equal(t, ConflictBrand, conflicts[0].ConflictType)
		assert.Equal(t, models.SeverityCritical, conflicts[0].Severity)
		assert.Equal(t, "windows", conflicts[0].Category)
		assert.Equal(t, "Andersen", conflicts[0].PlanValue)
		assert.Equal(t, "Pella", conflicts[0].QuoteValue)
		assert.Equal(t, "l1", conflicts[0].LineID)
	})

	t.Run("same brand is not a conflict", func(t *testing.T) {
		planText := "All windows to be Andersen 400 series"
		lines := []models.Line{
			{ID: "l1", Description: "Andersen 400 series casement windows"},
		}

		assert.Empty(t, engine.ScanForBrandConflicts(planText, lines))
	})

	t.Run("plan names no brand", func(t *testing.T) {
		planText := "Energy efficient vinyl windows throughout"
		lines := []models.Line{
			{ID: "l1", Description: "Supply and install Pella casement windows"},
		}

		assert.Empty(t, engine.ScanForBrandConflicts(planText, lines))
	})

	t.Run("conflicts across categories accumulate", func(t *testing.T) {
		planText := "Andersen windows, Kohler plumbing fixtures"
		lines := []models.Line{
			{ID: "l1", Description: "Pella windows"},
			{ID: "l2", Description: "Moen fixtures"},
		}

		conflicts := engine.ScanForBrandConflicts(planText, lines)
		assert.Len(t, conflicts, 2)
	})

	t.Run("case insensitive matching", func(t *testing.T) {
		planText := "all windows ANDERSEN per spec"
		lines := []models.Line{
			{ID: "l1", Description: "supply and install pella windows"},
		}

		assert.Len(t, engine.ScanForBrandConflicts(planText, lines), 1)
	})
}

// ==========================
// Dimension Extraction
// ==========================

func TestRegexExtractor_Extract(t *testing.T) {
	extractor := NewRegexExtractor()

	tests := []struct {
		name         string
		text         string
		expectWidth  float64
		expectHeight float64
	}{
		{"plain WxH", "Entry door 36x80 pre-hung", 36, 80},
		{"spaced WxH", "opening 36 x 80 rough", 36, 80},
		{"feet and inches", `window 3'-0" x 6'-8" double hung`, 36, 80},
		{"bare feet", `slider 6' x 8' opening`, 72, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := extractor.Extract(tt.text)
			require.NotEmpty(t, dims)
			assert.Equal(t, tt.expectWidth, dims[0].Width)
			assert.Equal(t, tt.expectHeight, dims[0].Height)
		})
	}
}

func TestRegexExtractor_Extract_NoDimension(t *testing.T) {
	extractor := NewRegexExtractor()
	assert.Empty(t, extractor.Extract("standard interior door, painted"))
}

func TestRegexExtractor_Extract_MultipleMatches(t *testing.T) {
	extractor := NewRegexExtractor()

	dims := extractor.Extract("doors at 36x80 and 32x80")
	require.Len(t, dims, 2)
	assert.Equal(t, 36.0, dims[0].Width)
	assert.Equal(t, 32.0, dims[1].Width)
}

// ==========================
// Spec Variances
// ==========================

func TestEngine_ScanForSpecVariances(t *testing.T) {
	engine := createTestEngine(t)

	t.Run("mismatched width", func(t *testing.T) {
		conflicts := engine.ScanForSpecVariances(
			"Entry door 36x80 per plan A-201",
			"Supply pre-hung door 32x80")

		require.Len(t, conflicts, 1)
		assert.Equal(t, ConflictDimension, conflicts[0].ConflictType)
		assert.Equal(t, models.SeverityCritical, conflicts[0].Severity)
		assert.Equal(t, "36x80", conflicts[0].PlanValue)
		assert.Equal(t, "32x80", conflicts[0].QuoteValue)
	})

	t.Run("matching dimensions", func(t *testing.T) {
		conflicts := engine.ScanForSpecVariances(
			"Entry door 36x80 per plan",
			"Pre-hung door 36x80 primed")

		assert.Empty(t, conflicts)
	})

	t.Run("plan has no dimensions", func(t *testing.T) {
		conflicts := engine.ScanForSpecVariances(
			"Entry door per schedule",
			"Pre-hung door 36x80")

		assert.Empty(t, conflicts)
	})
}

// ==========================
// Quantity Mismatches
// ==========================

func TestEngine_DetectQuantityMismatches(t *testing.T) {
	engine := createTestEngine(t)

	takeoff := []TakeoffItem{
		{ScopeTag: "drywall", Quantity: 1000, Unit: "SF"},
		{ScopeTag: "paint", Quantity: 2000, Unit: "SF"},
		{ScopeTag: "tile", Quantity: 300, Unit: "SF"},
	}
	lines := []models.Line{
		{ID: "l1", ScopeTag: "DRYWALL", Quantity: models.Amount(1050)},
		{ID: "l2", ScopeTag: "paint", Quantity: models.Amount(2400)},
		{ID: "l3", ScopeTag: "tile", Quantity: models.Amount(150)},
	}

	mismatches := engine.DetectQuantityMismatches(takeoff, lines)

	// 5% drywall variance is inside tolerance; 20% paint is a warning;
	// 50% tile is critical.
	require.Len(t, mismatches, 2)
	assert.Equal(t, "paint", mismatches[0].ScopeTag)
	assert.Equal(t, models.SeverityWarning, mismatches[0].Severity)
	assert.Equal(t, "tile", mismatches[1].ScopeTag)
	assert.Equal(t, models.SeverityCritical, mismatches[1].Severity)
}

func TestEngine_DetectQuantityMismatches_ZeroTakeoff(t *testing.T) {
	engine := createTestEngine(t)

	takeoff := []TakeoffItem{{ScopeTag: "tile", Quantity: 0}}
	lines := []models.Line{{ID: "l1", ScopeTag: "tile", Quantity: models.Amount(100)}}

	mismatches := engine.DetectQuantityMismatches(takeoff, lines)

	require.Len(t, mismatches, 1)
	assert.Equal(t, 100.0, mismatches[0].VariancePercent)
}

func TestEngine_DetectQuantityMismatches_UnquantifiedLine(t *testing.T) {
	engine := createTestEngine(t)

	takeoff := []TakeoffItem{{ScopeTag: "tile", Quantity: 300}}
	lines := []models.Line{{ID: "l1", ScopeTag: "tile"}}

	assert.Empty(t, engine.DetectQuantityMismatches(takeoff, lines))
}

// ==========================
// Composed Scan
// ==========================

func TestEngine_RunConflictScan(t *testing.T) {
	engine := createTestEngine(t)

	input := &Input{
		PlanText:  "Andersen windows throughout, entry door 36x80",
		QuoteText: "Pella windows, pre-hung entry door 32x80",
		QuoteLines: []models.Line{
			{ID: "l1", Description: "Pella casement windows", ScopeTag: "windows", Quantity: models.Amount(14)},
		},
		TakeoffItems: []TakeoffItem{
			{ScopeTag: "windows", Quantity: 10},
		},
	}

	output := engine.RunConflictScan(input)

	assert.Len(t, output.Conflicts, 2)
	assert.Len(t, output.QuantityMismatches, 1)
	assert.True(t, output.HasBlockingIssues)

	require.Len(t, output.Decisions, 2)
	types := []models.DecisionType{output.Decisions[0].DecisionType, output.Decisions[1].DecisionType}
	assert.Contains(t, types, models.DecisionBrandConflict)
	assert.Contains(t, types, models.DecisionSpecConflict)
}

func TestEngine_RunConflictScan_QuantityOnlyIsNotBlocking(t *testing.T) {
	engine := createTestEngine(t)

	input := &Input{
		PlanText: "drywall throughout",
		QuoteLines: []models.Line{
			{ID: "l1", ScopeTag: "drywall", Quantity: models.Amount(2000)},
		},
		TakeoffItems: []TakeoffItem{
			{ScopeTag: "drywall", Quantity: 1000},
		},
	}

	output := engine.RunConflictScan(input)

	assert.Empty(t, output.Conflicts)
	require.Len(t, output.QuantityMismatches, 1)
	assert.Equal(t, models.SeverityCritical, output.QuantityMismatches[0].Severity)
	assert.False(t, output.HasBlockingIssues, "quantity mismatch resolves through re-quote, not the review queue")
	assert.Empty(t, output.Decisions)
}

func TestEngine_RunConflictScan_CleanInput(t *testing.T) {
	engine := createTestEngine(t)

	output := engine.RunConflictScan(&Input{
		PlanText:  "Andersen windows, entry door 36x80",
		QuoteText: "Andersen windows, entry door 36x80",
		QuoteLines: []models.Line{
			{ID: "l1", Description: "Andersen casement windows"},
		},
	})

	assert.Empty(t, output.Conflicts)
	assert.False(t, output.HasBlockingIssues)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkEngine_RunConflictScan(b *testing.B) {
	engine := NewEngine(nil, ratebook.Default(), logger.NewNoOpLogger())
	input := &Input{
		PlanText:  "Andersen windows throughout, entry door 36x80, Kohler fixtures",
		QuoteText: "Pella windows, pre-hung entry door 32x80",
		QuoteLines: []models.Line{
			{ID: "l1", Description: "Pella casement windows", ScopeTag: "windows", Quantity: models.Amount(14)},
			{ID: "l2", Description: "Moen fixtures", ScopeTag: "plumbing"},
		},
		TakeoffItems: []TakeoffItem{{ScopeTag: "windows", Quantity: 10}},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.RunConflictScan(input)
	}
}
