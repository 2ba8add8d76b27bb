package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arai/internal/ai"
	"arai/internal/config"
	"arai/internal/db"
	"arai/internal/logging"
	"arai/internal/planner"
	"arai/internal/repository"
	"arai/internal/scheduler"
	"arai/internal/session"
	"arai/internal/share"
	"arai/internal/web"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	playbook := planner.DefaultPlaybook()
	if cfg.PlaybookFile != "" {
		playbook, err = planner.LoadPlaybook(cfg.PlaybookFile)
		if err != nil {
			logger.Fatalf("Failed to load playbook: %v", err)
		}
		logger.Infof("Loaded playbook from %s", cfg.PlaybookFile)
	}
	p := planner.New(playbook)

	opts := web.Options{
		Logger:             logger,
		Planner:            p,
		SessionTTL:         cfg.SessionTTL,
		Sharers:            make(map[string]share.Sharer),
		HealthChecks:       make(map[string]web.HealthCheck),
		HealthCheckToken:   cfg.HealthCheckToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	// OpenAI API compatible LLM, AI mode stays hidden without it
	if cfg.LLM.Enabled() {
		llm := &ai.LLM{
			Logger:     logger,
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			Endpoint:   cfg.LLM.Endpoint(),
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}
		opts.Generator = ai.NewGenerator(llm, p, logger)
		logger.Infof("AI mode enabled with model %s", cfg.LLM.Model)
	} else {
		logger.Warn("OPENAI_API_KEY is empty, only template mode is available")
	}

	// Sessions
	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			logger.Fatalf("Failed to initialize redis: %v", err)
		}
		defer redisStore.Close()
		if err := redisStore.Ping(ctx); err != nil {
			logger.Fatalf("Failed to reach redis: %v", err)
		}
		opts.HealthChecks["redis"] = redisStore.Ping
		sessions = redisStore
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}
	opts.Sessions = sessions

	// Report history is optional
	var purger scheduler.ReportPurger
	if cfg.DatabaseURL != "" {
		database, err := db.NewDB(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to initialize database: %s\n", err.Error())
		}
		defer func() {
			err = errors.Join(err, database.Close())
		}()

		reports := &repository.Reports{Repository: repository.Repository{DB: database, Logger: logger}}
		opts.Reports = reports
		opts.HealthChecks["database"] = func(context.Context) error { return database.Ping() }
		purger = reports
	} else {
		logger.Warn("DATABASE_URL is empty, strategies will not be persisted")
	}

	if cfg.Email.Enabled() {
		sharer, err := share.NewEmailSharer(ctx, cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Errorf("Email sharing disabled: %v", err)
		} else {
			opts.Sharers[web.ChannelEmail] = sharer
		}
	}
	if cfg.Telegram.Enabled() {
		sharer, err := share.NewTelegramSharer(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Errorf("Telegram sharing disabled: %v", err)
		} else {
			opts.Sharers[web.ChannelTelegram] = sharer
		}
	}

	webServer := web.NewServer(opts)

	retention := time.Duration(cfg.ReportRetentionDays) * 24 * time.Hour
	jobs := scheduler.NewScheduler(sessions, purger, retention, logger).WithLimiters(webServer)
	if err := jobs.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           webServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Web server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting web server on %s", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Web server failed: %s", err.Error())
	}
	logger.Info("Web server stopped")
}
