package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetStats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	stats, err := s.stats.GetDeckStats(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
