package api

import (
	"net/http"
)

func (s *Server) handleOracleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "oracle stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"backend":  s.qa.Backend(),
		"sessions": s.sessions.Len(),
		"stats":    s.stats.Snapshot(),
	})
}
