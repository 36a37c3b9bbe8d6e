package appointment

import "github.com/clinicdesk/scheduling-assistant/internal/patient"

// Status values an appointment moves through. Confirmed is set at booking;
// the reminder flow may re-write it later.
const (
	StatusConfirmed = "Confirmed"
	StatusReminded  = "Reminded"
)

// Appointment is one confirmed booking, persisted as a single row with a
// snapshot of the patient and insurance details at booking time.
type Appointment struct {
	ID          string
	PatientID   int
	PatientName string
	DOB         string
	Phone       string
	Email       string
	PatientType patient.Type
	Doctor      string
	Date        string // schedule.DateLayout
	Time        string // schedule.TimeLayout
	Duration    int    // minutes
	Insurance   patient.Insurance
	Status      string
	CreatedAt   string
}
