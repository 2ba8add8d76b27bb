package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"arai/internal/ai"
	"arai/internal/model"
	"arai/internal/planner"
	"arai/internal/session"
	"arai/internal/share"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultRatePerMinute = 10
	// A limiter idle this long has refilled its burst, so dropping it
	// does not change what the client is allowed.
	limiterIdleTTL = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ReportStore persists generated strategies. The repository implements it.
type ReportStore interface {
	Save(in model.Input, mode model.Mode, content string) (model.Report, error)
	Recent(limit int) ([]model.Report, error)
}

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

type Options struct {
	Logger  *logrus.Logger
	Planner *planner.Planner
	// Generator is nil when no LLM is configured, which leaves template mode only
	Generator          *ai.Generator
	Sessions           session.Store
	SessionTTL         time.Duration
	Reports            ReportStore
	Sharers            map[string]share.Sharer
	HealthChecks       map[string]HealthCheck
	HealthCheckToken   string
	RateLimitPerMinute int
}

type Server struct {
	logger      *logrus.Logger
	planner     *planner.Planner
	generator   *ai.Generator
	sessions    session.Store
	sessionTTL  time.Duration
	reports     ReportStore
	sharers     map[string]share.Sharer
	checks      map[string]HealthCheck
	healthToken string
	now         func() time.Time

	ratePerMinute int
	limiters      map[string]*limiterEntry
	limitersMu    sync.Mutex
}

func NewServer(opts Options) *Server {
	s := &Server{
		logger:        opts.Logger,
		planner:       opts.Planner,
		generator:     opts.Generator,
		sessions:      opts.Sessions,
		sessionTTL:    opts.SessionTTL,
		reports:       opts.Reports,
		sharers:       opts.Sharers,
		checks:        opts.HealthChecks,
		healthToken:   opts.HealthCheckToken,
		now:           time.Now,
		ratePerMinute: opts.RateLimitPerMinute,
		limiters:      make(map[string]*limiterEntry),
	}

	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.planner == nil {
		s.planner = planner.New(planner.DefaultPlaybook())
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore(s.sessionTTL)
	}
	if s.ratePerMinute <= 0 {
		s.ratePerMinute = defaultRatePerMinute
	}
	return s
}

func (s *Server) Router() http.Handler {
	return Router(s)
}

func (s *Server) aiEnabled() bool {
	return s.generator != nil
}

func (s *Server) getLimiter(key string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	entry, exists := s.limiters[key]
	if !exists {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.ratePerMinute)), s.ratePerMinute),
		}
		s.limiters[key] = entry
	}
	entry.lastSeen = s.now()

	return entry.limiter
}

// PruneLimiters drops the per-client limiters that have been idle for
// limiterIdleTTL and returns how many were removed.
func (s *Server) PruneLimiters(now time.Time) int {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	removed := 0
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware to log requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(logrus.Fields{
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Infof("%s %s %s", r.RemoteAddr, r.Method, r.URL.Path)
	})
}

// securityHeadersMiddleware adds security headers to all responses
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'; connect-src 'self'; frame-ancestors 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limiter := s.getLimiter(clientIP(r))
		if !limiter.Allow() {
			s.sendJSONError(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) sendJSONSuccess(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to send response: %v", err)
	}
}
