package reminder

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/internal/notify"
)

type captureEmail struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
}

func (c *captureEmail) Send(_ context.Context, msg notify.EmailMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

type captureSMS struct {
	mu   sync.Mutex
	sent []notify.SMSMessage
	err  error
}

func (c *captureSMS) Send(_ context.Context, msg notify.SMSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestDispatchDueSendsBothChannelsOnce(t *testing.T) {
	s := NewScheduler(testLogger())
	_, err := s.Schedule(sampleAppointment())
	require.NoError(t, err)

	email := &captureEmail{}
	sms := &captureSMS{}
	w := NewWorker(s, email, sms, nil, time.Minute, nil, testLogger())

	at, err := AppointmentTime(sampleAppointment())
	require.NoError(t, err)

	w.DispatchDue(context.Background(), at.Add(-24*time.Hour))
	require.Len(t, email.sent, 2)
	require.Len(t, sms.sent, 2)
	require.Equal(t, 1, s.PendingCount())

	// Same tick again: nothing new goes out.
	w.DispatchDue(context.Background(), at.Add(-24*time.Hour))
	require.Len(t, email.sent, 2)
	require.Len(t, sms.sent, 2)
}

func TestDispatchFailureDoesNotRequeue(t *testing.T) {
	s := NewScheduler(testLogger())
	_, err := s.Schedule(sampleAppointment())
	require.NoError(t, err)

	sms := &captureSMS{err: context.DeadlineExceeded}
	w := NewWorker(s, &captureEmail{}, sms, nil, time.Minute, nil, testLogger())

	at, err := AppointmentTime(sampleAppointment())
	require.NoError(t, err)

	w.DispatchDue(context.Background(), at)
	require.Equal(t, 0, s.PendingCount(), "failed sends are dropped, not retried")
}

func TestFinalReminderUpdatesAppointmentStatus(t *testing.T) {
	appts, err := appointment.NewStore(filepath.Join(t.TempDir(), "appointments.xlsx"), testLogger())
	require.NoError(t, err)
	stored := appts.Append(sampleAppointment())

	s := NewScheduler(testLogger())
	_, err = s.Schedule(stored)
	require.NoError(t, err)

	w := NewWorker(s, &captureEmail{}, &captureSMS{}, appts, time.Minute, nil, testLogger())
	at, err := AppointmentTime(stored)
	require.NoError(t, err)

	w.DispatchDue(context.Background(), at)
	require.Equal(t, appointment.StatusReminded, appts.All()[0].Status)
}
