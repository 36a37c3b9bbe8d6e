package reminder

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", os.Stderr)
}

func sampleAppointment() appointment.Appointment {
	return appointment.Appointment{
		ID:          "appt-1",
		PatientName: "John Doe",
		Email:       "john@example.com",
		Phone:       "(555) 123-4567",
		Doctor:      "Dr. Kevin Harris",
		Date:        "2026-03-06",
		Time:        "10:00",
		Duration:    30,
	}
}

func TestTriggersExactOffsets(t *testing.T) {
	at := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	trigs := Triggers(at)
	require.Len(t, trigs, 3)
	require.Equal(t, at.Add(-72*time.Hour), trigs[0].At)
	require.Equal(t, KindFirst, trigs[0].Kind)
	require.Equal(t, at.Add(-24*time.Hour), trigs[1].At)
	require.Equal(t, KindSecond, trigs[1].Kind)
	require.Equal(t, at.Add(-2*time.Hour), trigs[2].At)
	require.Equal(t, KindThird, trigs[2].Kind)
}

func TestScheduleQueuesThreeAndIsIdempotent(t *testing.T) {
	s := NewScheduler(testLogger())

	queued, err := s.Schedule(sampleAppointment())
	require.NoError(t, err)
	require.Len(t, queued, 3)
	require.Equal(t, 3, s.PendingCount())

	queued, err = s.Schedule(sampleAppointment())
	require.NoError(t, err)
	require.Empty(t, queued)
	require.Equal(t, 3, s.PendingCount())
}

func TestScheduleRejectsBadTimestamp(t *testing.T) {
	s := NewScheduler(testLogger())
	a := sampleAppointment()
	a.Time = "ten o'clock"
	_, err := s.Schedule(a)
	require.Error(t, err)
}

func TestDueOrderingAndMarkDone(t *testing.T) {
	s := NewScheduler(testLogger())
	_, err := s.Schedule(sampleAppointment())
	require.NoError(t, err)

	at, err := AppointmentTime(sampleAppointment())
	require.NoError(t, err)

	// One day before: first and second are due, third is not.
	due := s.Due(at.Add(-24 * time.Hour))
	require.Len(t, due, 2)
	require.Equal(t, KindFirst, due[0].Kind)
	require.Equal(t, KindSecond, due[1].Kind)

	for _, r := range due {
		s.MarkDone(r.Key)
	}
	require.Equal(t, 1, s.PendingCount())
	require.Empty(t, s.Due(at.Add(-24*time.Hour)))

	// Re-scheduling after dispatch does not resurrect sent reminders.
	queued, err := s.Schedule(sampleAppointment())
	require.NoError(t, err)
	require.Empty(t, queued)
	require.Equal(t, 1, s.PendingCount())
}

func TestRebuildSkipsPastAppointments(t *testing.T) {
	s := NewScheduler(testLogger())
	past := sampleAppointment()
	past.ID = "appt-past"
	past.Date = "2020-01-01"

	at, err := AppointmentTime(sampleAppointment())
	require.NoError(t, err)

	s.Rebuild([]appointment.Appointment{past, sampleAppointment()}, at.Add(-7*24*time.Hour))
	require.Equal(t, 3, s.PendingCount())
}

func TestRenderTemplates(t *testing.T) {
	r := Reminder{
		Kind:        KindFirst,
		PatientName: "John Doe",
		Doctor:      "Dr. Kevin Harris",
		Date:        "2026-03-06",
		Time:        "10:00",
		Duration:    30,
	}

	subject, body, err := RenderEmail(r)
	require.NoError(t, err)
	require.Contains(t, subject, "Appointment Reminder")
	require.Contains(t, body, "Dr. Kevin Harris")
	require.Contains(t, body, "30 minutes")

	sms, err := RenderSMS(r)
	require.NoError(t, err)
	require.Contains(t, sms, "John Doe")
	require.Contains(t, sms, "2026-03-06")
}
