package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"arai/internal/metrics"
	"arai/internal/model"
)

const maxHistory = 100

// handleAPIPlan builds a template plan from a JSON Input
func (s *Server) handleAPIPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in model.Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		s.sendJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	plan, err := s.planner.Build(in)
	if err != nil {
		metrics.Generations.WithLabelValues(string(model.ModeTemplate), metrics.OutcomeInvalid).Inc()
		s.sendJSONError(w, inputMessage(err), http.StatusBadRequest)
		return
	}
	metrics.Generations.WithLabelValues(string(model.ModeTemplate), metrics.OutcomeSuccess).Inc()

	markdown := plan.Markdown()
	s.persist(plan.Input, model.ModeTemplate, markdown)

	s.sendJSONSuccess(w, map[string]interface{}{
		"plan":     plan,
		"markdown": markdown,
	})
}

// handleHistory lists persisted reports as a page, or as JSON with ?format=json
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	asJSON := r.URL.Query().Get("format") == "json"

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			s.sendJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistory)
	}

	var data historyData
	if s.reports == nil {
		if asJSON {
			s.sendJSONError(w, "History needs a database", http.StatusServiceUnavailable)
			return
		}
		data.Info = "History is only kept when a database is configured."
		s.renderPage(w, http.StatusOK, historyPage, data)
		return
	}

	reports, err := s.reports.Recent(limit)
	if err != nil {
		s.logger.Errorf("Failed to list reports: %v", err)
		if asJSON {
			s.sendJSONError(w, "Failed to list reports", http.StatusInternalServerError)
			return
		}
		data.Error = "Failed to load the history."
		s.renderPage(w, http.StatusInternalServerError, historyPage, data)
		return
	}

	if asJSON {
		s.sendJSONSuccess(w, map[string]interface{}{
			"reports": reports,
			"count":   len(reports),
		})
		return
	}

	data.Reports = reports
	s.renderPage(w, http.StatusOK, historyPage, data)
}
