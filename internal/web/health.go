package web

import (
	"context"
	"net/http"
	"sort"
	"time"
)

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.healthToken != "" {
		headerToken := r.Header.Get("Authorization")
		if headerToken != "Bearer "+s.healthToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Errorf("Health check %s failed: %v", name, err)
			status[name] = "down"
			status["status"] = "error"
			code = http.StatusInternalServerError
			continue
		}
		status[name] = "up"
	}

	if code != http.StatusOK {
		s.writeJSON(w, code, status)
		return
	}
	s.sendJSONSuccess(w, status)
}
