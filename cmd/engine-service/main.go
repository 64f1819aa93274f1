// cmd/engine-service/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"costguard/internal/common/config"
	"costguard/internal/common/errors"
	"costguard/internal/common/logger"
	"costguard/internal/common/observability"
	"costguard/internal/engine"
	"costguard/internal/engine/conflicts"
	"costguard/internal/engine/dedupe"
	"costguard/internal/engine/safety"
	"costguard/internal/ratebook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting engine service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("engine-service")
	defer obs.Shutdown()

	// --- Load Ratebook ---
	rb := ratebook.Default()
	if cfg.Ratebook.Path != "" {
		rb, err = ratebook.Load(cfg.Ratebook.Path)
		if err != nil {
			zapLog.Fatal("ratebook load failed", zap.Error(err), zap.String("path", cfg.Ratebook.Path))
		}
	}
	zapLog.Info("Ratebook loaded",
		zap.String("version", rb.Version),
		zap.String("region", rb.Region),
		zap.Int("rates", len(rb.Rates)),
	)

	// --- Build Pipeline ---
	dedupeCfg, safetyCfg, conflictsCfg := engineConfigs(cfg)
	pipeline := engine.NewPipeline(engine.Options{
		DedupeConfig:    dedupeCfg,
		SafetyConfig:    safetyCfg,
		ConflictsConfig: conflictsCfg,
		Ratebook:        rb,
	}, log)

	srv := newServer(pipeline, dedupeCfg, conflictsCfg, rb, obs, log)

	// --- HTTP Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/reconcile", srv.handleReconcile)
	mux.HandleFunc("/v1/dedupe-check", srv.handleDedupeCheck)
	mux.HandleFunc("/v1/conflict-scan", srv.handleConflictScan)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/readyz", srv.handleReady)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Address))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Engine service stopped gracefully")
}

type server struct {
	pipeline  *engine.Pipeline
	dedupe    *dedupe.Engine
	conflicts *conflicts.Engine
	ratebook  *ratebook.Ratebook
	obs       *observability.Observability
	logger    logger.Logger
}

// engineConfigs maps the configured thresholds onto the per-engine configs,
// so the pipeline and the standalone check endpoints run on the same values.
func engineConfigs(cfg *config.Config) (*dedupe.Config, *safety.Config, *conflicts.Config) {
	dedupeCfg := &dedupe.Config{
		SoftMatchVariancePercent: cfg.Engines.SoftMatchVariancePercent,
		ExactMatchTolerance:      cfg.Engines.ExactMatchTolerance,
	}

	safetyCfg := safety.DefaultConfig()
	safetyCfg.SoftMatchVariancePercent = cfg.Engines.SoftMatchVariancePercent
	safetyCfg.TaxTrapBandLowPercent = cfg.Engines.TaxTrapBandLowPercent
	safetyCfg.TaxTrapBandHighPercent = cfg.Engines.TaxTrapBandHighPercent

	conflictsCfg := conflicts.DefaultConfig()
	conflictsCfg.QuantityTolerancePercent = cfg.Engines.QuantityTolerancePercent

	return dedupeCfg, safetyCfg, conflictsCfg
}

func newServer(p *engine.Pipeline, dedupeCfg *dedupe.Config, conflictsCfg *conflicts.Config, rb *ratebook.Ratebook, obs *observability.Observability, log logger.Logger) *server {
	return &server{
		pipeline:  p,
		dedupe:    dedupe.NewEngine(dedupeCfg, log),
		conflicts: conflicts.NewEngine(conflictsCfg, rb, log),
		ratebook:  rb,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

func (s *server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.NewRequestParseError(fmt.Errorf("method %s not allowed", r.Method)))
		return
	}

	var input engine.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.NewRequestParseError(err))
		return
	}
	if input.ProjectID == "" {
		writeError(w, http.StatusBadRequest, errors.NewInvalidProjectInputError("projectId is required"))
		return
	}

	start := time.Now()
	report, err := s.pipeline.Run(r.Context(), &input)
	if err != nil {
		s.logger.WithError(err).Error("reconcile run failed", map[string]interface{}{"projectId": input.ProjectID})
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.obs.RecordRunProcessed(r.Context(), "reconcile")
	s.obs.RecordRunDuration(r.Context(), time.Since(start), "reconcile")

	writeJSON(w, http.StatusOK, report)
}

func (s *server) handleDedupeCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.NewRequestParseError(fmt.Errorf("method %s not allowed", r.Method)))
		return
	}

	var input dedupe.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.NewRequestParseError(err))
		return
	}

	start := time.Now()
	out := s.dedupe.RunDedupeCheck(&input)
	s.obs.RecordRunProcessed(r.Context(), "dedupe-check")
	s.obs.RecordRunDuration(r.Context(), time.Since(start), "dedupe-check")

	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleConflictScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.NewRequestParseError(fmt.Errorf("method %s not allowed", r.Method)))
		return
	}

	var input conflicts.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.NewRequestParseError(err))
		return
	}

	start := time.Now()
	out := s.conflicts.RunConflictScan(&input)
	s.obs.RecordRunProcessed(r.Context(), "conflict-scan")
	s.obs.RecordRunDuration(r.Context(), time.Since(start), "conflict-scan")

	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK
	if s.ratebook == nil || len(s.ratebook.Rates) == 0 {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
}
