package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/internal/schedule"
)

// TranscriptMessage is one turn of the conversation, kept on the session so
// history survives reconnects.
type TranscriptMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PatientInfo is the patient data collected over the conversation. It starts
// empty and fills in field by field as the flow advances.
type PatientInfo struct {
	PatientID int          `json:"patient_id,omitempty"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	DOB       string       `json:"dob"`
	Phone     string       `json:"phone"`
	Email     string       `json:"email"`
	Type      patient.Type `json:"patient_type"`
}

// Session is the full mutable state of one booking conversation. Sessions are
// JSON-encoded into the session store between messages.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Patient   PatientInfo       `json:"patient"`
	Insurance patient.Insurance `json:"insurance"`

	// Insurance collection is stepwise; these track which fields have been
	// asked for, since an empty answer is a valid "Not Available".
	InsuranceCarrierSet  bool `json:"insurance_carrier_set"`
	InsuranceMemberIDSet bool `json:"insurance_member_id_set"`

	Doctor   string `json:"doctor,omitempty"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Duration int    `json:"duration,omitempty"`

	// SlotMenu is the numbered slot list last shown to the user. The number
	// the user replies with indexes into this snapshot, not the live schedule.
	SlotMenu []schedule.Slot `json:"slot_menu,omitempty"`

	AppointmentID string `json:"appointment_id,omitempty"`

	Transcript []TranscriptMessage `json:"transcript,omitempty"`
}

// NewSession starts a fresh conversation in the greeting state.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		State:     StateGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Record appends one turn to the transcript.
func (s *Session) Record(role, text string) {
	s.Transcript = append(s.Transcript, TranscriptMessage{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
	s.UpdatedAt = time.Now().UTC()
}

// Reset clears everything except the session ID, returning the conversation
// to the greeting state.
func (s *Session) Reset() {
	id, created := s.ID, s.CreatedAt
	*s = Session{
		ID:        id,
		State:     StateGreeting,
		CreatedAt: created,
		UpdatedAt: time.Now().UTC(),
	}
}
