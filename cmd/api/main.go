package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/scheduling-assistant/internal/api/router"
	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	appconfig "github.com/clinicdesk/scheduling-assistant/internal/config"
	"github.com/clinicdesk/scheduling-assistant/internal/conversation"
	"github.com/clinicdesk/scheduling-assistant/internal/extract"
	"github.com/clinicdesk/scheduling-assistant/internal/notify"
	"github.com/clinicdesk/scheduling-assistant/internal/observability/metrics"
	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/internal/reminder"
	"github.com/clinicdesk/scheduling-assistant/internal/schedule"
	"github.com/clinicdesk/scheduling-assistant/internal/session"
	"github.com/clinicdesk/scheduling-assistant/internal/webchat"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scheduling-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// File-backed stores
	patients, err := patient.NewStore(cfg.PatientsFile, logger)
	if err != nil {
		logger.Error("failed to open patient store", "path", cfg.PatientsFile, "error", err)
		os.Exit(1)
	}
	schedules, err := schedule.NewStore(cfg.SchedulesFile, logger)
	if err != nil {
		logger.Error("failed to open schedule store", "path", cfg.SchedulesFile, "error", err)
		os.Exit(1)
	}
	appts, err := appointment.NewStore(cfg.AppointmentsFile, logger)
	if err != nil {
		logger.Error("failed to open appointment store", "path", cfg.AppointmentsFile, "error", err)
		os.Exit(1)
	}

	// Entity extraction: Gemini when configured, rules otherwise
	var extractor extract.Extractor = extract.NewRuleExtractor()
	if cfg.GeminiAPIKey != "" {
		gemini, err := extract.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, extractor, logger)
		if err != nil {
			logger.Error("failed to create gemini extractor, using rules", "error", err)
		} else {
			extractor = gemini
			logger.Info("gemini extraction enabled", "model", cfg.GeminiModelID)
		}
	}

	// Outbound channels
	var email notify.EmailSender
	if cfg.SimulateEmail {
		email = notify.NewSimulatedEmailSender(logger)
		logger.Info("email delivery simulated")
	} else {
		email = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	var sms notify.SMSSender
	if cfg.SimulateSMS {
		sms = notify.NewSimulatedSMSSender(logger)
		logger.Info("sms delivery simulated")
	} else {
		sms = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	convMetrics := metrics.NewConversationMetrics(registry)
	remMetrics := metrics.NewReminderMetrics(registry)

	// Reminders run in-process; the scheduler queue lives in memory and is
	// rebuilt from the appointment store on startup.
	reminders := reminder.NewScheduler(logger)
	reminders.Rebuild(appts.All(), time.Now())
	worker := reminder.NewWorker(reminders, email, sms, appts, cfg.ReminderPollInterval, remMetrics, logger)
	go worker.Run(ctx)

	// Conversation engine
	engine := conversation.NewEngine(conversation.Deps{
		Extractor:               extractor,
		Patients:                patients,
		Matcher:                 patient.NewMatcher(patients, cfg.MatchThreshold),
		Schedule:                schedule.NewService(schedules, cfg.SlotMinutes, cfg.BookingWindowDays),
		Appts:                   appts,
		Email:                   email,
		Reminders:               reminders,
		Metrics:                 convMetrics,
		Logger:                  logger,
		NewPatientMinutes:       cfg.NewPatientMinutes,
		ReturningPatientMinutes: cfg.ReturningPatientMinutes,
	})

	// Sessions: Redis when configured, in-memory otherwise
	var sessions session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		sessions = session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL)
		logger.Info("redis sessions enabled", "addr", cfg.RedisAddr)
	}

	chat := webchat.NewHandler(engine, sessions, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webchat:            chat,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.ChatRatePerSecond,
		RateLimitBurst:     cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
