package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/internal/store"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// StockHandler handles the screener listing and per-symbol detail
type StockHandler struct {
	repo      *store.Repository
	collector *collector.Collector
	logger    *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(repo *store.Repository, col *collector.Collector, log *logger.Logger) *StockHandler {
	return &StockHandler{
		repo:      repo,
		collector: col,
		logger:    log,
	}
}

// billion divides raw market caps down to display scale
var billion = decimal.New(1, 9)

// StockResponse is one row of the screener listing
type StockResponse struct {
	Symbol            string `json:"symbol"`
	Sector            string `json:"sector"`
	MarketCapBillions string `json:"market_cap_billions"`
	Score             string `json:"score"` // payment count, or "-" when indeterminate
	AnalyzedAt        string `json:"analyzed_at,omitempty"`
}

// GetStocks returns the dividend-paying universe with scores,
// sorted by market cap descending.
// GET /api/stocks
func (h *StockHandler) GetStocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := h.repo.GetStockSummaries(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get stock summaries")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve stocks")
		return
	}

	result := make([]StockResponse, len(summaries))
	for i, s := range summaries {
		resp := StockResponse{
			Symbol:            s.Symbol,
			Sector:            s.Sector,
			MarketCapBillions: s.MarketCap.DivRound(billion, 0).String(),
			Score:             s.Score.String(),
		}
		if s.AnalyzedAt != nil {
			resp.AnalyzedAt = s.AnalyzedAt.Format(time.RFC3339)
		}
		result[i] = resp
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(result),
		"data":    result,
	})
}

// DividendDetailResponse is the per-symbol detail payload
type DividendDetailResponse struct {
	Symbol  string `json:"symbol"`
	Score   string `json:"score"`
	History string `json:"history"` // markdown rendering of the trailing 10 years
}

// GetDividends returns one symbol's consistency score and history rendering.
// GET /api/stocks/{symbol}/dividends
func (h *StockHandler) GetDividends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := h.repo.GetResult(ctx, symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "symbol not analyzed")
			return
		}
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get result")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve result")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": DividendDetailResponse{
			Symbol:  symbol,
			Score:   result.Score.String(),
			History: result.Rendering,
		},
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
