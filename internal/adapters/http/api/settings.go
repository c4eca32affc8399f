package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/tasting/internal/domain/model"
)

// SettingsDependencies reads and updates the settings.
type SettingsDependencies interface {
	Settings() model.Settings
	UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error)
}

// SettingsHandler handles the settings resource.
type SettingsHandler struct {
	deps SettingsDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SettingsDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

type settingsResponse struct {
	model.Settings
	Warning string `json:"warning,omitempty"`
}

// HandleSettings handles GET and PATCH /settings requests.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.patch_settings"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Settings())
	case http.MethodPatch:
		var patch model.SettingsPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if patch.Empty() {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		got, err := h.deps.UpdateSettings(r.Context(), patch)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, settingsResponse{Settings: got})
		case errors.Is(err, model.ErrPersistence):
			writeJSON(w, http.StatusOK, settingsResponse{Settings: got, Warning: Wrap(op, err).Error()})
		default:
			writeDomainError(w, op, err)
		}
	default:
		http.NotFound(w, r)
	}
}
