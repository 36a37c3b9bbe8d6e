package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	appconfig "github.com/clinicdesk/scheduling-assistant/internal/config"
	"github.com/clinicdesk/scheduling-assistant/internal/notify"
	"github.com/clinicdesk/scheduling-assistant/internal/observability/metrics"
	"github.com/clinicdesk/scheduling-assistant/internal/reminder"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Standalone reminder dispatcher. It polls the appointment workbook, queues
// the three reminders for every upcoming appointment, and sends the ones that
// are due. Run this instead of the in-process worker when the API and
// reminder dispatch should be separate processes sharing the data directory.
func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting reminder worker",
		"env", cfg.Env,
		"appointments_file", cfg.AppointmentsFile,
		"poll_interval", cfg.ReminderPollInterval.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appts, err := appointment.NewStore(cfg.AppointmentsFile, logger)
	if err != nil {
		logger.Error("failed to open appointment store", "path", cfg.AppointmentsFile, "error", err)
		os.Exit(1)
	}

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

	registry := prometheus.NewRegistry()
	remMetrics := metrics.NewReminderMetrics(registry)

	scheduler := reminder.NewScheduler(logger)
	scheduler.Rebuild(appts.All(), time.Now())
	worker := reminder.NewWorker(scheduler, email, sms, appts, cfg.ReminderPollInterval, remMetrics, logger)

	// Health and metrics endpoint
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	ticker := time.NewTicker(cfg.ReminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder worker stopped")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			return
		case now := <-ticker.C:
			// Pick up appointments booked since the last tick.
			if err := appts.Reload(); err != nil {
				logger.Error("appointment reload failed", "error", err)
			} else {
				scheduler.Rebuild(appts.All(), now)
			}
			worker.DispatchDue(ctx, now)
		}
	}
}
