package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"arai/internal/export"
	"arai/internal/metrics"
	"arai/internal/planner"
	"arai/internal/session"
	"arai/internal/share"
)

const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

func documentTitle(sess *session.Session) string {
	return fmt.Sprintf("AR.AI Marketing Strategy for %s", sess.Input.Brand)
}

// exportableSession loads the session and checks it holds some text
func (s *Server) exportableSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	sess, err := s.loadSession(r)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		s.logger.Errorf("Failed to load session: %v", err)
		s.sendJSONError(w, "Failed to load session", http.StatusInternalServerError)
		return nil, false
	}
	if err != nil || sess.Empty() {
		s.sendJSONError(w, "No strategy to export yet", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.exportableSession(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.PDF(&buf, documentTitle(sess), sess.Sections); err != nil {
		s.logger.Errorf("Failed to build PDF: %v", err)
		s.sendJSONError(w, "Failed to build PDF", http.StatusInternalServerError)
		return
	}
	metrics.Exports.WithLabelValues("pdf").Inc()

	filename := export.Filename(sess.Input.Brand, "pdf", s.now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Errorf("Failed to write PDF: %v", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.exportableSession(w, r)
	if !ok {
		return
	}

	allocations := planner.AllocateBudget(sess.Input.Budget, s.planner.ChannelsForBudget(sess.Input.Budget))
	if len(allocations) == 0 {
		s.sendJSONError(w, "No budget to export", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := export.AllocationCSV(&buf, allocations); err != nil {
		s.logger.Errorf("Failed to build CSV: %v", err)
		s.sendJSONError(w, "Failed to build CSV", http.StatusInternalServerError)
		return
	}
	metrics.Exports.WithLabelValues("csv").Inc()

	filename := export.Filename(sess.Input.Brand, "csv", s.now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Errorf("Failed to write CSV: %v", err)
	}
}

// handleShare sends the session PDF through the named channel
func (s *Server) handleShare(channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sharer := s.sharers[channel]
		if sharer == nil {
			s.sendJSONError(w, fmt.Sprintf("Sharing by %s is not configured", channel), http.StatusServiceUnavailable)
			return
		}

		sess, ok := s.exportableSession(w, r)
		if !ok {
			return
		}

		title := documentTitle(sess)
		body, err := export.PDFBytes(title, sess.Sections)
		if err != nil {
			s.logger.Errorf("Failed to build PDF: %v", err)
			s.sendJSONError(w, "Failed to build PDF", http.StatusInternalServerError)
			return
		}

		err = sharer.Share(r.Context(), share.Document{
			Filename:  export.Filename(sess.Input.Brand, "pdf", s.now()),
			Title:     title,
			Body:      body,
			Recipient: r.FormValue("recipient"),
		})
		metrics.Shares.WithLabelValues(channel, metrics.Outcome(err)).Inc()
		switch {
		case errors.Is(err, share.ErrNoRecipient):
			s.sendJSONError(w, "Please enter a recipient", http.StatusBadRequest)
			return
		case errors.Is(err, share.ErrBadRecipient):
			s.sendJSONError(w, "The recipient is not valid", http.StatusBadRequest)
			return
		case err != nil:
			s.logger.WithField("channel", channel).Errorf("Failed to share strategy: %v", err)
			s.sendJSONError(w, "Failed to share the strategy", http.StatusBadGateway)
			return
		}

		s.sendJSONSuccess(w, map[string]interface{}{
			"message": "Strategy shared successfully",
			"channel": channel,
		})
	}
}
