package reminder

import (
	"context"
	"time"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/internal/notify"
	"github.com/clinicdesk/scheduling-assistant/internal/observability/metrics"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Worker drains due reminders on a fixed interval. Dispatch failures are
// logged and dropped; they never surface into the conversation flow.
type Worker struct {
	scheduler *Scheduler
	email     notify.EmailSender
	sms       notify.SMSSender
	appts     *appointment.Store
	interval  time.Duration
	metrics   *metrics.ReminderMetrics
	logger    *logging.Logger
}

// NewWorker wires a dispatch loop over the scheduler.
func NewWorker(scheduler *Scheduler, email notify.EmailSender, sms notify.SMSSender, appts *appointment.Store, interval time.Duration, m *metrics.ReminderMetrics, logger *logging.Logger) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{
		scheduler: scheduler,
		email:     email,
		sms:       sms,
		appts:     appts,
		interval:  interval,
		metrics:   m,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled, dispatching due reminders every tick.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case now := <-ticker.C:
			w.DispatchDue(ctx, now)
		}
	}
}

// DispatchDue sends every reminder whose trigger time has passed.
func (w *Worker) DispatchDue(ctx context.Context, now time.Time) {
	for _, r := range w.scheduler.Due(now) {
		w.dispatch(ctx, r)
		w.scheduler.MarkDone(r.Key)
	}
}

func (w *Worker) dispatch(ctx context.Context, r Reminder) {
	if r.Email != "" && w.email != nil {
		subject, body, err := RenderEmail(r)
		if err != nil {
			w.logger.Error("reminder email render failed", "key", r.Key, "error", err)
		} else if err := w.email.Send(ctx, notify.EmailMessage{
			To:      r.Email,
			ToName:  r.PatientName,
			Subject: subject,
			Body:    body,
		}); err != nil {
			w.logger.Error("reminder email failed", "key", r.Key, "error", err)
			w.metrics.ObserveDispatch(string(r.Kind), "email", "error")
		} else {
			w.metrics.ObserveDispatch(string(r.Kind), "email", "sent")
		}
	}

	if r.Phone != "" && w.sms != nil {
		body, err := RenderSMS(r)
		if err != nil {
			w.logger.Error("reminder sms render failed", "key", r.Key, "error", err)
		} else if err := w.sms.Send(ctx, notify.SMSMessage{To: r.Phone, Body: body}); err != nil {
			w.logger.Error("reminder sms failed", "key", r.Key, "error", err)
			w.metrics.ObserveDispatch(string(r.Kind), "sms", "error")
		} else {
			w.metrics.ObserveDispatch(string(r.Kind), "sms", "sent")
		}
	}

	// The final reminder closes the loop on the appointment row.
	if r.Kind == KindThird && w.appts != nil {
		w.appts.UpdateStatus(r.AppointmentID, appointment.StatusReminded)
	}
}
