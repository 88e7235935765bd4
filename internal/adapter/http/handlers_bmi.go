package adapthttp

import (
	"errors"
	"net/http"

	"bmitrack/internal/domain"
)

func (s *Server) handleBMI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	weight, err := floatQuery(r, "weight")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := floatQuery(r, "height")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sys, err := s.systemQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.bmi.Evaluate(weight, height, sys)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.metrics.RecordClassification(report.Category.Category.Key())
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": domain.Bands()})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report := s.bmi.CurrentReport(r.Context())
	s.metrics.RecordClassification(report.Category.Category.Key())
	writeJSON(w, http.StatusOK, report)
}

// systemQuery reads ?system=, defaulting to the profile's system.
func (s *Server) systemQuery(r *http.Request) (domain.MeasurementSystem, error) {
	v := r.URL.Query().Get("system")
	if v == "" {
		return s.settings.LoadSettings(r.Context()).System, nil
	}
	sys, err := domain.ParseMeasurementSystem(v)
	if err != nil {
		return 0, errors.New(`system must be "metric" or "imperial"`)
	}
	return sys, nil
}
