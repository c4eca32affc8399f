package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/tasting/internal/domain/model"
)

// ResetDependencies erases all local data behind two confirmations.
type ResetDependencies interface {
	ResetData(ctx context.Context, first, final model.Confirmation) (bool, error)
}

// ResetHandler handles data reset requests.
type ResetHandler struct {
	deps ResetDependencies
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(deps ResetDependencies) *ResetHandler {
	return &ResetHandler{deps: deps}
}

// resetRequest carries the answers to both confirmation prompts.
type resetRequest struct {
	Confirm      bool `json:"confirm"`
	ConfirmFinal bool `json:"confirm_final"`
}

type resetResponse struct {
	Cleared bool   `json:"cleared"`
	Warning string `json:"warning,omitempty"`
}

func answer(v bool) model.Confirmation {
	return func(context.Context) bool { return v }
}

// HandleReset handles POST /reset requests.
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	cleared, err := h.deps.ResetData(r.Context(), answer(req.Confirm), answer(req.ConfirmFinal))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resetResponse{Cleared: cleared})
	case errors.Is(err, model.ErrPersistence):
		writeJSON(w, http.StatusOK, resetResponse{Cleared: cleared, Warning: Wrap(op, err).Error()})
	default:
		writeDomainError(w, op, err)
	}
}
