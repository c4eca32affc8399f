// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/internal/domain/stats"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	QuestionDependencies
	TastingDependencies
	RankingsDependencies
	SettingsDependencies
	ResetDependencies
	Summary() stats.Summary
}

// Server wires HTTP routes for the tasting API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	questionsHandler *QuestionsHandler
	tastingsHandler  *TastingsHandler
	rankingsHandler  *RankingsHandler
	settingsHandler  *SettingsHandler
	resetHandler     *ResetHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankings int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps, statsProvider),
		questionsHandler: NewQuestionsHandler(deps),
		tastingsHandler:  NewTastingsHandler(deps),
		rankingsHandler:  NewRankingsHandler(deps, maxRankings),
		settingsHandler:  NewSettingsHandler(deps),
		resetHandler:     NewResetHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/questions", MetricsMiddleware(s.questionsHandler.HandleGetQuestions, "questions"))
	mux.HandleFunc("/tastings", MetricsMiddleware(s.tastingsHandler.HandleTastings, "tastings"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/settings", MetricsMiddleware(s.settingsHandler.HandleSettings, "settings"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.resetHandler.HandleReset, "reset"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps domain errors to a status: validation failures are
// the client's fault, everything else is ours.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, model.ErrValidation) {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
