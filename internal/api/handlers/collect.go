package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// CollectHandler triggers collection and analysis runs
type CollectHandler struct {
	collector *collector.Collector
	logger    *logger.Logger
}

// NewCollectHandler creates a new collect handler
func NewCollectHandler(col *collector.Collector, log *logger.Logger) *CollectHandler {
	return &CollectHandler{
		collector: col,
		logger:    log,
	}
}

// CollectRequest is the POST /api/collect body
type CollectRequest struct {
	Type string `json:"type"` // universe, dividends, analysis, all
	Year int    `json:"year,omitempty"`
}

// Collect triggers a collection run.
// POST /api/collect
func (h *CollectHandler) Collect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Analysis windows need an explicit reference year; default to the
	// server's current year for ad-hoc triggers.
	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	h.logger.WithFields(map[string]interface{}{
		"type": req.Type,
		"year": year,
	}).Info("Collection triggered")

	cfg := collector.Config{}

	switch req.Type {
	case "universe":
		count, err := h.collector.RefreshUniverse(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to refresh universe")
			respondError(w, http.StatusInternalServerError, "Failed to refresh universe")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"type":   req.Type,
			"count":  count,
		})

	case "dividends":
		results, err := h.collector.CollectDividends(ctx, cfg)
		if err != nil {
			h.logger.WithError(err).Error("Failed to collect dividends")
			respondError(w, http.StatusInternalServerError, "Failed to collect dividends")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"type":   req.Type,
			"count":  len(results),
		})

	case "analysis":
		runID, results, err := h.collector.RunAnalysis(ctx, year, cfg)
		if err != nil {
			h.logger.WithError(err).Error("Failed to run analysis")
			respondError(w, http.StatusInternalServerError, "Failed to run analysis")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"type":   req.Type,
			"run_id": runID.String(),
			"count":  len(results),
		})

	case "all":
		if _, err := h.collector.RefreshUniverse(ctx); err != nil {
			h.logger.WithError(err).Error("Failed to refresh universe")
			respondError(w, http.StatusInternalServerError, "Failed to refresh universe")
			return
		}
		if _, err := h.collector.CollectDividends(ctx, cfg); err != nil {
			h.logger.WithError(err).Error("Failed to collect dividends")
			respondError(w, http.StatusInternalServerError, "Failed to collect dividends")
			return
		}
		runID, results, err := h.collector.RunAnalysis(ctx, year, cfg)
		if err != nil {
			h.logger.WithError(err).Error("Failed to run analysis")
			respondError(w, http.StatusInternalServerError, "Failed to run analysis")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"type":   req.Type,
			"run_id": runID.String(),
			"count":  len(results),
		})

	default:
		respondError(w, http.StatusBadRequest, "Invalid collection type (valid: universe, dividends, analysis, all)")
	}
}
