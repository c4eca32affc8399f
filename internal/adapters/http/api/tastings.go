package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/internal/domain/stats"
)

// TastingDependencies defines the tasting operations used by the handler.
type TastingDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (model.Outcome, error)
	History() []model.TastingRecord
	Verdict(score float64) string
}

// TastingsHandler handles tasting submission and the history list.
type TastingsHandler struct {
	deps TastingDependencies
}

// NewTastingsHandler creates a new tastings handler.
func NewTastingsHandler(deps TastingDependencies) *TastingsHandler {
	return &TastingsHandler{deps: deps}
}

type historyItem struct {
	model.TastingRecord
	Verdict string `json:"verdict"`
	Label   string `json:"label"`
}

type historyResponse struct {
	Line     string        `json:"line"`
	Tastings []historyItem `json:"tastings"`
}

type submitResponse struct {
	model.Outcome
	Warning string `json:"warning,omitempty"`
}

// HandleTastings handles GET and POST /tastings requests.
func (h *TastingsHandler) HandleTastings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *TastingsHandler) handleList(w http.ResponseWriter) {
	records := h.deps.History()
	items := make([]historyItem, len(records))
	for i, rec := range records {
		items[i] = historyItem{TastingRecord: rec, Verdict: h.deps.Verdict(rec.Score), Label: rec.WineLabel()}
	}
	mean, ok := stats.Average(records)
	writeJSON(w, http.StatusOK, historyResponse{
		Line:     stats.SummaryLine(len(records), mean, ok),
		Tastings: items,
	})
}

func (h *TastingsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_tasting"
	var sub model.Submission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.Submit(r.Context(), sub)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, submitResponse{Outcome: out})
	case errors.Is(err, model.ErrPersistence):
		// The tasting is recorded in memory but not saved.
		writeJSON(w, http.StatusCreated, submitResponse{Outcome: out, Warning: Wrap(op, err).Error()})
	default:
		writeDomainError(w, op, err)
	}
}
