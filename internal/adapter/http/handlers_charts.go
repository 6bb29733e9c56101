package adapthttp

import (
	"net/http"
	"strings"

	"weightduel/internal/analytics"
	"weightduel/internal/domain"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	items, err := s.stats.All(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, err := analytics.ParseWindow(q.Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	unit := q.Get("unit")
	if unit == "" {
		unit = domain.UnitLb
	}

	var users []string
	for _, u := range strings.Split(q.Get("users"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}

	series, err := s.charts.Series(r.Context(), window, users, unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"range": window, "series": series})
}
