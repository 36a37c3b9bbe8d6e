package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/internal/notify"
	"github.com/clinicdesk/scheduling-assistant/internal/patient"
)

const notAvailable = "Not Available"

var (
	noInsurancePhrases  = []string{"no insurance", "don't have", "dont have", "none", "no carrier", "self pay", "cash", "not available"}
	notAvailablePhrases = []string{"not available", "don't have", "dont have", "none", "n/a"}
	knownCarriers       = []string{"blue cross", "aetna", "cigna", "humana", "kaiser", "medicare", "medicaid"}

	memberIDPattern = regexp.MustCompile(`[A-Za-z0-9]{6,}`)
)

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func (e *Engine) handleInsurance(ctx context.Context, sess *Session, input string) string {
	lower := strings.ToLower(input)

	switch {
	case !sess.InsuranceCarrierSet:
		if containsAny(lower, noInsurancePhrases) {
			sess.Insurance = patient.Insurance{Carrier: "Self Pay", MemberID: notAvailable, GroupNumber: notAvailable}
			sess.InsuranceCarrierSet = true
			sess.InsuranceMemberIDSet = true
			sess.State = StateConfirmation
			return e.finalize(ctx, sess)
		}

		for _, carrier := range knownCarriers {
			if strings.Contains(lower, carrier) {
				sess.Insurance.Carrier = titleCase(carrier)
				break
			}
		}
		if sess.Insurance.Carrier == "" {
			sess.Insurance.Carrier = strings.TrimSpace(input)
		}
		sess.InsuranceCarrierSet = true
		return fmt.Sprintf("Thank you. I have %s as your carrier. What's your member ID?", sess.Insurance.Carrier)

	case !sess.InsuranceMemberIDSet:
		if containsAny(lower, notAvailablePhrases) {
			sess.Insurance.MemberID = notAvailable
			sess.Insurance.GroupNumber = notAvailable
			sess.InsuranceMemberIDSet = true
			sess.State = StateConfirmation
			return e.finalize(ctx, sess)
		}
		if id := memberIDPattern.FindString(input); id != "" {
			sess.Insurance.MemberID = id
		} else {
			sess.Insurance.MemberID = strings.TrimSpace(input)
		}
		sess.InsuranceMemberIDSet = true
		return "Got it. What's your group number? (If you don't have one, just say 'not available' or 'none')"

	default:
		if containsAny(lower, notAvailablePhrases) {
			sess.Insurance.GroupNumber = notAvailable
		} else {
			sess.Insurance.GroupNumber = strings.TrimSpace(input)
		}
		sess.State = StateConfirmation
		return e.finalize(ctx, sess)
	}
}

// finalize persists the appointment, queues reminders, sends the intake form
// for new patients, and emits the confirmation summary. Safe to call twice;
// the second call only re-renders the summary.
func (e *Engine) finalize(ctx context.Context, sess *Session) string {
	if sess.AppointmentID == "" {
		fullName := strings.TrimSpace(sess.Patient.FirstName + " " + sess.Patient.LastName)
		stored := e.appts.Append(appointment.Appointment{
			PatientID:   sess.Patient.PatientID,
			PatientName: fullName,
			DOB:         sess.Patient.DOB,
			Phone:       sess.Patient.Phone,
			Email:       sess.Patient.Email,
			PatientType: sess.Patient.Type,
			Doctor:      sess.Doctor,
			Date:        sess.Date,
			Time:        sess.Time,
			Duration:    sess.Duration,
			Insurance:   sess.Insurance,
		})
		sess.AppointmentID = stored.ID

		e.metrics.ObserveBooking(string(sess.Patient.Type))
		e.logger.Info("appointment confirmed",
			"session_id", sess.ID,
			"appointment_id", stored.ID,
			"patient_id", sess.Patient.PatientID,
			"doctor", sess.Doctor,
			"date", sess.Date,
			"time", sess.Time,
			"duration_minutes", sess.Duration,
		)

		if e.reminders != nil {
			if _, err := e.reminders.Schedule(stored); err != nil {
				e.logger.Error("reminder scheduling failed", "appointment_id", stored.ID, "error", err)
			}
		}
		if sess.Patient.Type == patient.TypeNew {
			e.sendIntakeForm(ctx, sess)
		}
	}

	sess.State = StateCompleted
	return e.confirmationSummary(sess)
}

func (e *Engine) confirmationSummary(sess *Session) string {
	fullName := strings.TrimSpace(sess.Patient.FirstName + " " + sess.Patient.LastName)
	return fmt.Sprintf(`Your appointment is confirmed!

Patient Information:
  Name: %s
  Type: %s Patient

Appointment Details:
  Date: %s
  Time: %s
  Doctor: %s
  Duration: %d minutes

Insurance Information:
  Carrier: %s
  Member ID: %s
  Group Number: %s

Next steps: your appointment has been saved to our system. You'll receive an intake form via email and automated reminders before your appointment.

Is there anything else I can help you with?`,
		fullName, sess.Patient.Type,
		sess.Date, sess.Time, sess.Doctor, sess.Duration,
		sess.Insurance.Carrier, sess.Insurance.MemberID, sess.Insurance.GroupNumber,
	)
}

const intakeFormBody = `Dear %s,

Thank you for registering with our clinic. Your appointment with %s is
scheduled for %s at %s.

Please complete the attached intake form before your visit so we can prepare
for your appointment. As a new patient, please arrive 15 minutes early.

See you soon!`

func (e *Engine) sendIntakeForm(ctx context.Context, sess *Session) {
	if e.email == nil || sess.Patient.Email == "" {
		return
	}
	msg := notify.EmailMessage{
		To:      sess.Patient.Email,
		ToName:  sess.Patient.FirstName,
		Subject: fmt.Sprintf("New Patient Intake Form - Appointment on %s", sess.Date),
		Body:    fmt.Sprintf(intakeFormBody, sess.Patient.FirstName, sess.Doctor, sess.Date, sess.Time),
	}
	if err := e.email.Send(ctx, msg); err != nil {
		e.logger.Error("intake form email failed", "session_id", sess.ID, "error", err)
	}
}

// titleCase uppercases the first letter of each word. Carrier names are short
// ASCII phrases, so a simple per-word transform is enough.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
