package api

import (
	"net/http"
)

// handleDashboard returns the administrator dashboard: every report joined
// with its filer's name, newest first, plus registry totals. Reports whose
// identity is no longer known are included with an empty name.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.ListWithIdentity(r.Context())
	if err != nil {
		s.logger.Error("dashboard query failed", "error", err)
		writeInternalError(w, "failed to load dashboard")
		return
	}

	identityCount, err := s.identities.Count(r.Context())
	if err != nil {
		s.logger.Error("identity count failed", "error", err)
		writeInternalError(w, "failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": rows,
		"counts": map[string]int{
			"reports":    len(rows),
			"identities": identityCount,
		},
	})
}
