package adapthttp

import (
	"net/http"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	days := countQuery(r, "days", 90)
	sys, err := s.systemQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	points := s.charts.GetDaily(r.Context(), days, sys)

	writeJSON(w, http.StatusOK, map[string]any{
		"days":   len(points),
		"system": sys,
		"unit":   sys.WeightUnit(),
		"today":  today(),
		"items":  points,
	})
}
