package reminder

import (
	"fmt"
	"time"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
)

// Kind orders the three reminders sent before an appointment.
type Kind string

const (
	// KindFirst goes out three days ahead and carries the intake form nudge.
	KindFirst Kind = "first"
	// KindSecond goes out one day ahead and asks about the intake form.
	KindSecond Kind = "second"
	// KindThird goes out two hours ahead and asks for attendance confirmation.
	KindThird Kind = "third"
)

// offsets maps each reminder kind to how long before the appointment it fires.
var offsets = []struct {
	Kind   Kind
	Before time.Duration
}{
	{KindFirst, 72 * time.Hour},
	{KindSecond, 24 * time.Hour},
	{KindThird, 2 * time.Hour},
}

// Trigger is one computed reminder time.
type Trigger struct {
	Kind Kind
	At   time.Time
}

// Triggers returns the three reminder times for an appointment at the given
// time: 3 days, 1 day and 2 hours before.
func Triggers(appointmentAt time.Time) []Trigger {
	out := make([]Trigger, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, Trigger{Kind: o.Kind, At: appointmentAt.Add(-o.Before)})
	}
	return out
}

// Reminder is one pending dispatch for an appointment.
type Reminder struct {
	Key           string
	AppointmentID string
	Kind          Kind
	DueAt         time.Time
	PatientName   string
	Email         string
	Phone         string
	Doctor        string
	Date          string
	Time          string
	Duration      int
}

// AppointmentTime parses an appointment's date and time cells into a local
// timestamp.
func AppointmentTime(a appointment.Appointment) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminder: parse appointment time %q %q: %w", a.Date, a.Time, err)
	}
	return t, nil
}
