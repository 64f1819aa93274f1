// internal/ratebook/ratebook_test.go
package ratebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costguard/internal/common/errors"
	"costguard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func validRatebookJSON() []byte {
	return []byte(`{
		"version": "2",
		"region": "tx-gulf-coast",
		"sourceRef": "ratebook/tx-gulf-coast/2025Q1",
		"rates": {
			"TILE_PREP": {"low": 450, "likely": 700, "high": 1200}
		},
		"brandCatalog": {
			"windows": ["Andersen", "Pella"]
		},
		"scopeDependencies": [
			{
				"name": "tile requires setting materials",
				"triggerKeywords": ["tile"],
				"requiredKeywords": ["thinset", "grout"],
				"gapScopeTag": "TILE_PREP",
				"gapDescription": "Tile scope with no setting materials",
				"rateKey": "TILE_PREP"
			}
		],
		"logisticsDefaults": {"deliveryFlat": 300, "freightPercentage": 5}
	}`)
}

// ==========================
// Parse & Schema Validation
// ==========================

func TestParse_ValidRatebook(t *testing.T) {
	rb, err := Parse(validRatebookJSON())

	require.NoError(t, err)
	assert.Equal(t, "2", rb.Version)
	assert.Equal(t, "tx-gulf-coast", rb.Region)

	rate, ok := rb.MarketRange("TILE_PREP")
	require.True(t, ok)
	assert.Equal(t, 700.0, rate.Likely)
	assert.Equal(t, models.SourceRatebookV1, rate.Source.Type)
	assert.Equal(t, "ratebook/tx-gulf-coast/2025Q1", rate.Source.Ref)
	assert.Equal(t, models.ConfidenceMedium, rate.Confidence)

	require.Len(t, rb.ScopeDependencies, 1)
	assert.Equal(t, "TILE_PREP", rb.ScopeDependencies[0].GapScopeTag)
	assert.Equal(t, 300.0, rb.LogisticsDefaults.DeliveryFlat)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing sourceRef", `{"version": "1", "region": "us"}`},
		{"empty version", `{"version": "", "region": "us", "sourceRef": "x"}`},
		{"negative rate", `{"version": "1", "region": "us", "sourceRef": "x",
			"rates": {"TILE": {"low": -5, "likely": 10, "high": 20}}}`},
		{"rate missing likely", `{"version": "1", "region": "us", "sourceRef": "x",
			"rates": {"TILE": {"low": 5, "high": 20}}}`},
		{"dependency without triggers", `{"version": "1", "region": "us", "sourceRef": "x",
			"scopeDependencies": [{"name": "r", "triggerKeywords": [],
			"requiredKeywords": ["a"], "gapScopeTag": "T"}]}`},
		{"not an object", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)

			var stdErr *errors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, errors.ErrCodeRatebookSchemaInvalid, stdErr.Code)
			assert.NotEmpty(t, stdErr.Metadata["violations"])
		})
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"version": "1",`))
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeRatebookLoadFailed, stdErr.Code)
}

func TestParse_MinimalRatebook(t *testing.T) {
	rb, err := Parse([]byte(`{"version": "1", "region": "us", "sourceRef": "x"}`))

	require.NoError(t, err)
	assert.NotNil(t, rb.Rates)
	assert.NotNil(t, rb.BrandCatalog)
	_, ok := rb.MarketRange("ANYTHING")
	assert.False(t, ok)
}

// ==========================
// Load
// ==========================

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratebook.json")
	require.NoError(t, os.WriteFile(path, validRatebookJSON(), 0o644))

	rb, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "tx-gulf-coast", rb.Region)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := Load(path)
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeRatebookLoadFailed, stdErr.Code)
	assert.Equal(t, path, stdErr.Metadata["path"])
}

// ==========================
// Built-in Defaults
// ==========================

func TestDefault(t *testing.T) {
	rb := Default()

	assert.Equal(t, "us-national", rb.Region)
	assert.NotEmpty(t, rb.SourceRef)

	for tag, rate := range rb.Rates {
		assert.LessOrEqual(t, rate.Low, rate.Likely, "rate %s low above likely", tag)
		assert.LessOrEqual(t, rate.Likely, rate.High, "rate %s likely above high", tag)
		assert.Equal(t, models.SourceRatebookV1, rate.Source.Type, "rate %s missing provenance", tag)
		assert.NotEmpty(t, rate.Source.Ref, "rate %s missing source ref", tag)
	}

	for _, rule := range rb.ScopeDependencies {
		assert.NotEmpty(t, rule.TriggerKeywords, "rule %s has no triggers", rule.Name)
		assert.NotEmpty(t, rule.RequiredKeywords, "rule %s has no required keywords", rule.Name)
		if rule.RateKey != "" {
			_, ok := rb.MarketRange(rule.RateKey)
			assert.True(t, ok, "rule %s points at missing rate %s", rule.Name, rule.RateKey)
		}
	}

	catalog := rb.BrandCatalog["windows"]
	assert.Contains(t, catalog, "Andersen")
	assert.Contains(t, catalog, "Pella")
}
