package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"arai/internal/ai"
	"arai/internal/metrics"
	"arai/internal/model"
	"arai/internal/render"
	"arai/internal/session"
)

const (
	msgMissingBrand     = "Please enter a Brand Name to generate the plan."
	msgInvalidGoal      = "Please choose one of the listed goals."
	msgNegativeBudget   = "The budget cannot be negative."
	msgInvalidBudget    = "The budget must be a number no larger than 1,000,000,000,000."
	msgGenerationFailed = "Something went wrong while generating the strategy. Please try again."
	msgAIDisabled       = "AI mode is not configured. Use template mode or set OPENAI_API_KEY."
	msgNothingToRefine  = "Generate a strategy in AI mode before refining it."
	msgEmptyInstruction = "Please enter an instruction to refine the strategy."
)

// inputMessage turns a validation error into the warning shown above the form
func inputMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingBrand):
		return msgMissingBrand
	case errors.Is(err, model.ErrInvalidGoal):
		return msgInvalidGoal
	case errors.Is(err, model.ErrNegativeBudget):
		return msgNegativeBudget
	case errors.Is(err, model.ErrInvalidBudget):
		return msgInvalidBudget
	}
	return err.Error()
}

// parseInput reads the form fields. The returned input is always usable to
// refill the form, even when err is set.
func parseInput(r *http.Request) (model.Input, model.Mode, error) {
	if err := r.ParseForm(); err != nil {
		return model.Input{Goal: model.GoalSalesGrowth}, model.ModeTemplate, err
	}

	in := model.Input{
		Brand:    r.FormValue("brand"),
		Category: r.FormValue("category"),
		Market:   r.FormValue("market"),
		Goal:     model.Goal(r.FormValue("goal")),
		KPIs:     r.Form["kpis"],
	}
	mode := model.ParseMode(r.FormValue("mode"))

	if raw := strings.TrimSpace(r.FormValue("budget")); raw != "" {
		budget, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil || math.IsNaN(budget) || math.IsInf(budget, 0) {
			in.Normalize()
			return in, mode, model.ErrInvalidBudget
		}
		in.Budget = budget
	}

	in.Normalize()
	return in, mode, in.Validate()
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := s.newFormData()
	if sess, err := s.loadSession(r); err == nil {
		s.fillResult(&data, sess)
	}
	s.renderPage(w, http.StatusOK, formPage, data)
}

// fillResult shows the accumulated session text under the form
func (s *Server) fillResult(data *formData, sess *session.Session) {
	if sess.Input.Brand != "" {
		data.Input = sess.Input
		data.Mode = sess.Mode
	}
	if !sess.Empty() {
		data.Result = render.HTML(sess.Text())
		data.CanRefine = s.aiEnabled() && sess.Mode == model.ModeAI
	}
}

// handleGenerate renders the template plan or runs the AI sections. Template
// output replaces the session text, AI output is appended to it.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := s.newFormData()
	in, mode, err := parseInput(r)
	data.Input = in
	data.Mode = mode
	if err != nil {
		metrics.Generations.WithLabelValues(string(mode), metrics.OutcomeInvalid).Inc()
		data.Warning = inputMessage(err)
		s.renderPage(w, http.StatusBadRequest, formPage, data)
		return
	}

	if mode == model.ModeAI && !s.aiEnabled() {
		data.Warning = msgAIDisabled
		s.renderPage(w, http.StatusServiceUnavailable, formPage, data)
		return
	}

	sess, err := s.loadOrCreateSession(r)
	if err != nil {
		s.logger.Errorf("Failed to load session: %v", err)
		data.Error = msgGenerationFailed
		s.renderPage(w, http.StatusInternalServerError, formPage, data)
		return
	}

	log := s.logger.WithField("brand", in.Brand).WithField("mode", mode)

	var generated []model.Section
	switch mode {
	case model.ModeAI:
		generated, err = s.generator.Generate(r.Context(), in)
		if err != nil {
			metrics.Generations.WithLabelValues(string(mode), metrics.OutcomeFailure).Inc()
			log.Errorf("Strategy generation failed: %v", err)
			data.Error = msgGenerationFailed
			s.fillResult(&data, sess)
			data.Input, data.Mode = in, mode
			s.renderPage(w, http.StatusBadGateway, formPage, data)
			return
		}
		sess.Append(generated...)
	default:
		plan, err := s.planner.Build(in)
		if err != nil {
			data.Warning = inputMessage(err)
			s.renderPage(w, http.StatusBadRequest, formPage, data)
			return
		}
		generated = []model.Section{{Text: plan.Markdown()}}
		sess.Replace(generated...)
	}
	metrics.Generations.WithLabelValues(string(mode), metrics.OutcomeSuccess).Inc()

	sess.Input = in
	sess.Mode = mode
	if err := s.saveSession(w, r, sess); err != nil {
		log.Errorf("Failed to save session: %v", err)
		data.Error = msgGenerationFailed
		s.renderPage(w, http.StatusInternalServerError, formPage, data)
		return
	}

	s.persist(in, mode, model.JoinSections(generated))
	log.Infof("Generated %d sections", len(generated))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// persist stores the generation when a database is configured. Failures
// only get logged.
func (s *Server) persist(in model.Input, mode model.Mode, content string) {
	if s.reports == nil {
		return
	}
	if _, err := s.reports.Save(in, mode, content); err != nil {
		s.logger.Errorf("Failed to persist report for %s: %v", in.Brand, err)
	}
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := s.newFormData()
	sess, err := s.loadSession(r)
	if err != nil || sess.Empty() {
		data.Warning = msgNothingToRefine
		s.renderPage(w, http.StatusBadRequest, formPage, data)
		return
	}
	s.fillResult(&data, sess)

	if !s.aiEnabled() {
		data.Warning = msgAIDisabled
		s.renderPage(w, http.StatusServiceUnavailable, formPage, data)
		return
	}

	section, err := s.generator.Refine(r.Context(), sess.Text(), r.FormValue("instruction"))
	switch {
	case errors.Is(err, ai.ErrEmptyInstruction):
		data.Warning = msgEmptyInstruction
		s.renderPage(w, http.StatusBadRequest, formPage, data)
		return
	case err != nil:
		metrics.Generations.WithLabelValues("refine", metrics.OutcomeFailure).Inc()
		s.logger.WithField("brand", sess.Input.Brand).Errorf("Refinement failed: %v", err)
		data.Error = msgGenerationFailed
		s.renderPage(w, http.StatusBadGateway, formPage, data)
		return
	}
	metrics.Generations.WithLabelValues("refine", metrics.OutcomeSuccess).Inc()

	sess.Append(section)
	if err := s.saveSession(w, r, sess); err != nil {
		s.logger.Errorf("Failed to save session: %v", err)
		data.Error = msgGenerationFailed
		s.renderPage(w, http.StatusInternalServerError, formPage, data)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Errorf("Failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) loadSession(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || !session.ValidID(cookie.Value) {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(r.Context(), cookie.Value)
}

func (s *Server) loadOrCreateSession(r *http.Request) (*session.Session, error) {
	sess, err := s.loadSession(r)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, err
	}
	return session.New()
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	cookie := &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if s.sessionTTL > 0 {
		cookie.MaxAge = int(s.sessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}
