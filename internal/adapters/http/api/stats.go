package api

import (
	"net/http"

	"github.com/okian/tasting/internal/domain/stats"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// SummaryProvider aggregates the tasting history.
type SummaryProvider interface {
	Summary() stats.Summary
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	summary       SummaryProvider
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(summary SummaryProvider, statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{summary: summary, statsProvider: statsProvider}
}

type statsResponse struct {
	Summary stats.Summary          `json:"summary"`
	Service map[string]interface{} `json:"service,omitempty"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	resp := statsResponse{Summary: h.summary.Summary()}
	if h.statsProvider != nil {
		resp.Service = h.statsProvider.GetStats()
	}
	writeJSON(w, http.StatusOK, resp)
}
