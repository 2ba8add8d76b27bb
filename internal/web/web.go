// Package web serves the strategy form, its results and the export endpoints.
package web

import (
	"net/http"

	"arai/internal/metrics"
)

func Router(s *Server) http.Handler {
	mux := http.NewServeMux()

	// Form and session routes
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/generate", s.rateLimit(s.handleGenerate))
	mux.HandleFunc("/refine", s.rateLimit(s.handleRefine))
	mux.HandleFunc("/reset", s.handleReset)

	// Downloads
	mux.HandleFunc("/export/pdf", s.handleExportPDF)
	mux.HandleFunc("/export/csv", s.handleExportCSV)

	// Sharing
	mux.HandleFunc("/share/email", s.rateLimit(s.handleShare(ChannelEmail)))
	mux.HandleFunc("/share/telegram", s.rateLimit(s.handleShare(ChannelTelegram)))

	mux.HandleFunc("/api/plan", s.rateLimit(s.handleAPIPlan))
	mux.HandleFunc("/history", s.handleHistory)

	mux.HandleFunc("/health", s.handleHealthCheck)
	mux.Handle("/metrics", metrics.Handler())

	return s.loggingMiddleware(s.securityHeadersMiddleware(mux))
}
