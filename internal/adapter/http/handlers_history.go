package adapthttp

import (
	"net/http"

	"bmitrack/internal/domain"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		limit := countQuery(r, "limit", 0)
		writeJSON(w, http.StatusOK, map[string]any{"items": s.history.Recent(ctx, limit)})

	case http.MethodPost:
		var body struct {
			Weight float64                   `json:"weight"`
			System *domain.MeasurementSystem `json:"system"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		sys := s.settings.LoadSettings(ctx).System
		if body.System != nil {
			sys = *body.System
		}
		entry, err := s.history.AppendEntry(ctx, body.Weight, sys)
		s.metrics.RecordHistoryAppend(err)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
