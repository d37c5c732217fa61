package adapthttp

import (
	"net/http"
)

func (s *Server) handleHabitStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stats, err := s.analytics.HabitStats(r.Context(), userFromContext(r).ID, id, s.today())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSuccessRates(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", s.analytics.WindowDays())
	series, err := s.analytics.SuccessRates(r.Context(), userFromContext(r).ID, days, s.today())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.analytics.Dashboard(r.Context(), userFromContext(r).ID, s.today())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
