// cmd/engine-service/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costguard/internal/common/config"
	"costguard/internal/common/logger"
	"costguard/internal/common/observability"
	"costguard/internal/engine"
	"costguard/internal/engine/conflicts"
	"costguard/internal/engine/dedupe"
	"costguard/internal/engine/safety"
	"costguard/internal/models"
	"costguard/internal/ratebook"
)

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *config.Config {
	return &config.Config{
		Engines: config.EnginesConfig{
			SoftMatchVariancePercent: 8,
			ExactMatchTolerance:      0.01,
			TaxTrapBandLowPercent:    4,
			TaxTrapBandHighPercent:   12,
			QuantityTolerancePercent: 10,
		},
	}
}

func createTestServer(t *testing.T, cfg *config.Config) *server {
	log := logger.NewTestLogger(t)
	rb := ratebook.Default()

	dedupeCfg, safetyCfg, conflictsCfg := engineConfigs(cfg)
	p := engine.NewPipeline(engine.Options{
		DedupeConfig:    dedupeCfg,
		SafetyConfig:    safetyCfg,
		ConflictsConfig: conflictsCfg,
		Ratebook:        rb,
	}, log)

	return newServer(p, dedupeCfg, conflictsCfg, rb, &observability.Observability{}, log)
}

func postJSON(t *testing.T, handler http.HandlerFunc, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// ==========================
// Engine Config Wiring
// ==========================

func TestEngineConfigs_PropagatesThresholds(t *testing.T) {
	cfg := createTestConfig()
	cfg.Engines.SoftMatchVariancePercent = 12
	cfg.Engines.ExactMatchTolerance = 0.05
	cfg.Engines.TaxTrapBandLowPercent = 2
	cfg.Engines.TaxTrapBandHighPercent = 20
	cfg.Engines.QuantityTolerancePercent = 50

	dedupeCfg, safetyCfg, conflictsCfg := engineConfigs(cfg)

	assert.Equal(t, 12.0, dedupeCfg.SoftMatchVariancePercent)
	assert.Equal(t, 0.05, dedupeCfg.ExactMatchTolerance)
	assert.Equal(t, 12.0, safetyCfg.SoftMatchVariancePercent)
	assert.Equal(t, 2.0, safetyCfg.TaxTrapBandLowPercent)
	assert.Equal(t, 20.0, safetyCfg.TaxTrapBandHighPercent)
	assert.Equal(t, 50.0, conflictsCfg.QuantityTolerancePercent)
}

func TestEngineConfigs_WidenedTaxTrapBandChangesAudit(t *testing.T) {
	log := logger.NewTestLogger(t)

	// 15% wrapper-over-children variance sits above the default band.
	cfg := createTestConfig()
	_, safetyCfg, _ := engineConfigs(cfg)
	result := safety.NewEngine(safetyCfg, log).AuditWrapperForTaxTrap(1000, 850)
	assert.Equal(t, safety.AuditVarianceWarning, result.Status)

	cfg.Engines.TaxTrapBandHighPercent = 20
	_, safetyCfg, _ = engineConfigs(cfg)
	result = safety.NewEngine(safetyCfg, log).AuditWrapperForTaxTrap(1000, 850)
	assert.Equal(t, safety.AuditTaxTrapDetected, result.Status)
}

// ==========================
// Conflict Scan Endpoint
// ==========================

func TestHandleConflictScan_UsesConfiguredQuantityTolerance(t *testing.T) {
	// 30% quantity variance between takeoff and quote.
	input := conflicts.Input{
		TakeoffItems: []conflicts.TakeoffItem{
			{ScopeTag: "DRYWALL", Quantity: 1000, Unit: "sqft"},
		},
		QuoteLines: []models.Line{
			{ID: "line-1", Description: "Drywall install", ScopeTag: "DRYWALL", Quantity: models.Amount(1300)},
		},
	}

	t.Run("default tolerance flags the variance", func(t *testing.T) {
		srv := createTestServer(t, createTestConfig())

		rec := postJSON(t, srv.handleConflictScan, input)
		require.Equal(t, http.StatusOK, rec.Code)

		var out conflicts.Output
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Len(t, out.QuantityMismatches, 1)
		assert.Equal(t, models.SeverityCritical, out.QuantityMismatches[0].Severity)
	})

	t.Run("raised tolerance accepts the same variance", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Engines.QuantityTolerancePercent = 50
		srv := createTestServer(t, cfg)

		rec := postJSON(t, srv.handleConflictScan, input)
		require.Equal(t, http.StatusOK, rec.Code)

		var out conflicts.Output
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Empty(t, out.QuantityMismatches)
	})
}

// ==========================
// Dedupe Check Endpoint
// ==========================

func TestHandleDedupeCheck_UsesConfiguredSoftMatchTolerance(t *testing.T) {
	// Line 5500 vs candidate total 5000 is a 9.1% variance.
	input := dedupe.Input{
		ParentLine: models.Line{ID: "line-1", Description: "Flooring per sub quote", Amount: models.Amount(5500)},
		ParentQuote: models.Quote{
			ID:         "quote-wrapper",
			VendorName: "General Contractor LLC",
			IsWrapper:  true,
		},
		CandidateQuote: models.Quote{
			ID:         "quote-candidate",
			VendorName: "ABC Flooring",
			Total:      models.Amount(5000),
			Status:     models.QuoteStatusPending,
		},
	}

	t.Run("default tolerance sees no match", func(t *testing.T) {
		srv := createTestServer(t, createTestConfig())

		rec := postJSON(t, srv.handleDedupeCheck, input)
		require.Equal(t, http.StatusOK, rec.Code)

		var out dedupe.Output
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, dedupe.ActionNone, out.Action)
	})

	t.Run("raised tolerance routes the soft match to review", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Engines.SoftMatchVariancePercent = 12
		srv := createTestServer(t, cfg)

		rec := postJSON(t, srv.handleDedupeCheck, input)
		require.Equal(t, http.StatusOK, rec.Code)

		var out dedupe.Output
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, dedupe.ActionPotentialDuplicate, out.Action)
		require.NotNil(t, out.Decision)
		assert.Equal(t, models.DecisionSoftMatch, out.Decision.DecisionType)
	})
}
