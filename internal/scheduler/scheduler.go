package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

const (
	SESSION_CLEANUP_MIN = 10
	REPORT_PURGE_AT     = "03:00"
	LIMITER_PRUNE_MIN   = 5
)

type SessionCleaner interface {
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

type ReportPurger interface {
	Purge(retention time.Duration, now time.Time) (int64, error)
}

type LimiterPruner interface {
	PruneLimiters(now time.Time) int
}

type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  SessionCleaner
	reports   ReportPurger
	limiters  LimiterPruner
	retention time.Duration
	logger    *logrus.Logger
	now       func() time.Time
}

// NewScheduler wires the housekeeping jobs. reports may be nil when no
// database is configured, and a zero retention keeps reports forever.
func NewScheduler(sessions SessionCleaner, reports ReportPurger, retention time.Duration, logger *logrus.Logger) *Scheduler {
	// Create scheduler with UTC timezone
	s := gocron.NewScheduler(time.UTC)

	return &Scheduler{
		scheduler: s,
		sessions:  sessions,
		reports:   reports,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// WithLimiters adds a job dropping idle rate limiters
func (s *Scheduler) WithLimiters(limiters LimiterPruner) *Scheduler {
	s.limiters = limiters
	return s
}

func (s *Scheduler) register() error {
	if s.sessions != nil {
		_, err := s.scheduler.Every(SESSION_CLEANUP_MIN).Minutes().Do(func() {
			if err := s.cleanupSessions(); err != nil {
				s.logger.Errorf("Failed to clean up sessions: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session cleanup: %w", err)
		}
	}

	if s.limiters != nil {
		_, err := s.scheduler.Every(LIMITER_PRUNE_MIN).Minutes().Do(s.pruneLimiters)
		if err != nil {
			return fmt.Errorf("failed to schedule limiter pruning: %w", err)
		}
	}

	if s.reports != nil && s.retention > 0 {
		_, err := s.scheduler.Every(1).Day().At(REPORT_PURGE_AT).Do(func() {
			if err := s.purgeReports(); err != nil {
				s.logger.Errorf("Failed to purge reports: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule report purge: %w", err)
		}
	}

	return nil
}

func (s *Scheduler) Start() error {
	if err := s.register(); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Infof("Scheduler started with %d jobs", len(s.scheduler.Jobs()))
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) cleanupSessions() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.sessions.Cleanup(ctx, s.now())
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Infof("Removed %d expired sessions", removed)
	}
	return nil
}

func (s *Scheduler) pruneLimiters() {
	if removed := s.limiters.PruneLimiters(s.now()); removed > 0 {
		s.logger.Debugf("Pruned %d idle rate limiters", removed)
	}
}

func (s *Scheduler) purgeReports() error {
	s.logger.Info("Purging old reports...")
	_, err := s.reports.Purge(s.retention, s.now())
	return err
}
