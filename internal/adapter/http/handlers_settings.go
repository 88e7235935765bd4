package adapthttp

import (
	"errors"
	"net/http"

	"bmitrack/internal/app"
	"bmitrack/internal/domain"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"settings": s.settings.LoadSettings(ctx)})

	case http.MethodPut:
		var body domain.Settings
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.settings.SaveSettings(ctx, body); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"settings": body})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSettingsSystem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		System *domain.MeasurementSystem `json:"system"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.System == nil {
		writeError(w, http.StatusBadRequest, errors.New("system is required"))
		return
	}
	st, err := s.settings.SwitchSystem(r.Context(), *body.System)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": st})
}

// writeServiceError maps validation failures to 400 and everything else to
// a logged 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, app.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.logger(r).Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, errors.New("internal error"))
}
