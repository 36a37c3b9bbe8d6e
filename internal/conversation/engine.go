package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/internal/extract"
	"github.com/clinicdesk/scheduling-assistant/internal/notify"
	"github.com/clinicdesk/scheduling-assistant/internal/observability/metrics"
	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/internal/reminder"
	"github.com/clinicdesk/scheduling-assistant/internal/schedule"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Reply is the assistant's answer to one inbound message.
type Reply struct {
	Text  string
	State State
	Done  bool
}

// Deps wires the engine to everything it touches per message.
type Deps struct {
	Extractor extract.Extractor
	Patients  *patient.Store
	Matcher   *patient.Matcher
	Schedule  *schedule.Service
	Appts     *appointment.Store
	Email     notify.EmailSender
	Reminders *reminder.Scheduler
	Metrics   *metrics.ConversationMetrics
	Logger    *logging.Logger

	NewPatientMinutes       int
	ReturningPatientMinutes int
}

// Engine drives the booking conversation. It is stateless between calls; all
// per-conversation state lives on the Session.
type Engine struct {
	extractor extract.Extractor
	patients  *patient.Store
	matcher   *patient.Matcher
	schedule  *schedule.Service
	appts     *appointment.Store
	email     notify.EmailSender
	reminders *reminder.Scheduler
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger

	newPatientMinutes       int
	returningPatientMinutes int
}

// NewEngine builds a conversation engine from its dependencies.
func NewEngine(d Deps) *Engine {
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.NewPatientMinutes <= 0 {
		d.NewPatientMinutes = 60
	}
	if d.ReturningPatientMinutes <= 0 {
		d.ReturningPatientMinutes = 30
	}
	return &Engine{
		extractor:               d.Extractor,
		patients:                d.Patients,
		matcher:                 d.Matcher,
		schedule:                d.Schedule,
		appts:                   d.Appts,
		email:                   d.Email,
		reminders:               d.Reminders,
		metrics:                 d.Metrics,
		logger:                  d.Logger,
		newPatientMinutes:       d.NewPatientMinutes,
		returningPatientMinutes: d.ReturningPatientMinutes,
	}
}

// Process handles one user message, advancing the session's state machine and
// returning the assistant's reply.
func (e *Engine) Process(ctx context.Context, sess *Session, input string) Reply {
	sess.Record("user", input)
	stateBefore := sess.State

	entities := extract.Entities{}
	if e.extractor != nil {
		entities = e.extractor.Extract(ctx, input, hintFor(sess.State))
	}

	var text string
	switch sess.State {
	case StateGreeting:
		text = e.handleGreeting(sess, input, entities)
	case StateCollectingInfo:
		text = e.handleInfoCollection(sess, input, entities)
	case StatePatientLookup:
		text = e.performLookup(sess)
	case StateNewPatientRegistration:
		text = e.handleRegistration(sess, entities)
	case StateDoctorSelection:
		text = e.handleDoctorSelection(sess, input)
	case StateScheduling:
		text = e.handleScheduling(sess, input)
	case StateInsuranceCollection:
		text = e.handleInsurance(ctx, sess, input)
	case StateConfirmation:
		text = e.handleConfirmation(ctx, sess, input)
	case StateCompleted:
		text = e.handleCompleted(sess, input, entities)
	default:
		sess.Reset()
		text = "I'm not sure how to help with that. Let me start over. " + greetingPrompt
	}

	sess.Record("assistant", text)

	outcome := "handled"
	if sess.State == StateCompleted && stateBefore != StateCompleted {
		outcome = "completed"
	}
	e.metrics.ObserveMessage(string(stateBefore), outcome)

	return Reply{Text: text, State: sess.State, Done: sess.State.Terminal()}
}

const greetingPrompt = "Hello! I'm your medical scheduling assistant. What's your first name?"

func hintFor(s State) extract.Hint {
	switch s {
	case StateGreeting:
		return extract.HintName
	case StateCollectingInfo:
		return extract.HintDOB
	case StateNewPatientRegistration:
		return extract.HintContact
	case StateDoctorSelection:
		return extract.HintDoctor
	default:
		return extract.HintNone
	}
}

func (e *Engine) handleGreeting(sess *Session, input string, entities extract.Entities) string {
	if entities.FirstName != "" {
		sess.Patient.FirstName = entities.FirstName
		sess.State = StateCollectingInfo
		return fmt.Sprintf("Nice to meet you, %s! What's your date of birth? (Please use MM/DD/YYYY format)", entities.FirstName)
	}
	return greetingPrompt
}

func (e *Engine) handleInfoCollection(sess *Session, input string, entities extract.Entities) string {
	if entities.FirstName != "" && sess.Patient.FirstName == "" {
		sess.Patient.FirstName = entities.FirstName
	}

	if entities.DOB != "" {
		if !extract.ValidDOB(entities.DOB) {
			return "That doesn't look like a valid date of birth. Please use MM/DD/YYYY format, for example 03/15/1985."
		}
		sess.Patient.DOB = extract.CanonicalDOB(entities.DOB)
		sess.State = StatePatientLookup
		return e.performLookup(sess)
	}

	if sess.Patient.FirstName == "" {
		return "I didn't catch your name. Could you please tell me your first name?"
	}
	return fmt.Sprintf("Thank you, %s. What's your date of birth? (Please use MM/DD/YYYY format)", sess.Patient.FirstName)
}

func (e *Engine) performLookup(sess *Session) string {
	if match, score, ok := e.matcher.Match(sess.Patient.FirstName, sess.Patient.DOB); ok {
		sess.Patient.PatientID = match.ID
		sess.Patient.LastName = match.LastName
		sess.Patient.Phone = match.Phone
		sess.Patient.Email = match.Email
		sess.Patient.Type = patient.TypeReturning
		sess.State = StateDoctorSelection

		e.logger.Info("returning patient matched",
			"session_id", sess.ID,
			"patient_id", match.ID,
			"score", score,
		)
		return fmt.Sprintf(
			"Welcome back, %s! I found you in our system as a returning patient. Which doctor would you like to see? Available doctors: %s",
			sess.Patient.FirstName, strings.Join(e.schedule.Doctors(), ", "),
		)
	}

	sess.Patient.Type = patient.TypeNew
	sess.State = StateNewPatientRegistration
	return fmt.Sprintf(
		"I don't see you in our system, %s. Let me register you as a new patient. What's your email address?",
		sess.Patient.FirstName,
	)
}

func (e *Engine) handleRegistration(sess *Session, entities extract.Entities) string {
	if entities.Email != "" {
		if !extract.ValidEmail(entities.Email) {
			return "That doesn't look like a valid email address. Could you please provide a valid email?"
		}
		sess.Patient.Email = entities.Email
	}
	if entities.Phone != "" {
		if !extract.ValidPhone(entities.Phone) {
			return "That doesn't look like a valid phone number. Please provide a 10-digit US phone number."
		}
		sess.Patient.Phone = extract.FormatPhone(entities.Phone)
	}

	if sess.Patient.Email == "" {
		return "I need your email address to complete registration. What's your email?"
	}
	if sess.Patient.Phone == "" {
		return "I also need your phone number. What's your phone number?"
	}

	registered, err := e.patients.Register(patient.Patient{
		FirstName: sess.Patient.FirstName,
		LastName:  sess.Patient.LastName,
		DOB:       sess.Patient.DOB,
		Phone:     sess.Patient.Phone,
		Email:     sess.Patient.Email,
		Type:      patient.TypeNew,
	})
	if err != nil {
		e.logger.Error("patient registration failed", "session_id", sess.ID, "error", err)
		return "I'm having trouble saving your registration right now. Could you try again in a moment?"
	}
	sess.Patient.PatientID = registered.ID
	sess.Patient.Type = patient.TypeNew
	sess.State = StateDoctorSelection

	return fmt.Sprintf(
		"Perfect! You're now registered, %s. Which doctor would you like to see? Available doctors: %s",
		sess.Patient.FirstName, strings.Join(e.schedule.Doctors(), ", "),
	)
}

func (e *Engine) handleConfirmation(ctx context.Context, sess *Session, input string) string {
	lower := strings.ToLower(input)
	for _, w := range []string{"yes", "confirm", "correct", "right"} {
		if strings.Contains(lower, w) {
			return e.finalize(ctx, sess)
		}
	}
	for _, w := range []string{"no", "wrong", "incorrect", "change"} {
		if strings.Contains(lower, w) {
			return "I understand you'd like to make changes. Let me know what you'd like to modify."
		}
	}
	return "Please let me know if this information is correct or if you'd like to make any changes."
}

func (e *Engine) handleCompleted(sess *Session, input string, entities extract.Entities) string {
	lower := strings.ToLower(input)
	for _, w := range []string{"book", "appointment", "another", "again"} {
		if strings.Contains(lower, w) {
			sess.Reset()
			return greetingPrompt
		}
	}
	return "Your appointment is all set! If you'd like to book another appointment, just let me know."
}
