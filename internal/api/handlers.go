package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/wonny/growthscreen/internal/contracts"
	"github.com/wonny/growthscreen/internal/screening"
	"github.com/wonny/growthscreen/pkg/logger"
)

// ScreenHandler runs the screening pipeline on demand
// ⭐ SSOT: 스크리닝 API 핸들러는 이 구조체에서만
type ScreenHandler struct {
	fundamentals contracts.FundamentalsSource
	marketCaps   contracts.MarketCapSource
	thresholds   screening.Thresholds
	count        int
	logger       *logger.Logger
}

// NewScreenHandler creates a new screen handler with profile defaults.
func NewScreenHandler(
	fundamentals contracts.FundamentalsSource,
	marketCaps contracts.MarketCapSource,
	thresholds screening.Thresholds,
	count int,
	log *logger.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		fundamentals: fundamentals,
		marketCaps:   marketCaps,
		thresholds:   thresholds,
		count:        count,
		logger:       log,
	}
}

// screenedStockJSON mirrors contracts.ScreenedStock with missing growth
// entries as null (NaN is not representable in JSON).
type screenedStockJSON struct {
	Symbol    string   `json:"symbol"`
	RevG1     *float64 `json:"rev_g1"`
	RevG2     *float64 `json:"rev_g2"`
	OpMG1     *float64 `json:"opm_g1"`
	OpMG2     *float64 `json:"opm_g2"`
	MarketCap float64  `json:"market_cap"`
}

// Screen runs the pipeline with the configured thresholds. Query params
// min_rev_growth, min_margin_growth and count override the profile.
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	thresholds := h.thresholds
	count := h.count

	q := r.URL.Query()
	if v, err := strconv.ParseFloat(q.Get("min_rev_growth"), 64); err == nil {
		thresholds.MinRevenueGrowthPct = v
	}
	if v, err := strconv.ParseFloat(q.Get("min_margin_growth"), 64); err == nil {
		thresholds.MinMarginGrowthPct = v
	}
	if v, err := strconv.Atoi(q.Get("count")); err == nil && v > 0 {
		count = v
	}

	pipeline := screening.NewPipeline(h.fundamentals, h.marketCaps, thresholds, count, h.logger)
	ranked, err := pipeline.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		http.Error(w, "screening failed", http.StatusInternalServerError)
		return
	}

	out := make([]screenedStockJSON, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, screenedStockJSON{
			Symbol:    s.Symbol,
			RevG1:     nullableGrowth(s.RevG1),
			RevG2:     nullableGrowth(s.RevG2),
			OpMG1:     nullableGrowth(s.OpMG1),
			OpMG2:     nullableGrowth(s.OpMG2),
			MarketCap: s.MarketCap,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":   len(out),
		"results": out,
	})
}

func nullableGrowth(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
