package conversation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/internal/schedule"
)

// showAvailableSlots renders the numbered slot menu for the chosen doctor and
// snapshots it on the session for the scheduling step.
func (e *Engine) showAvailableSlots(sess *Session) string {
	slots := e.schedule.AvailableSlots(sess.Doctor)
	if len(slots) == 0 {
		sess.SlotMenu = nil
		sess.State = StateDoctorSelection
		return fmt.Sprintf(
			"I'm sorry, but %s doesn't have any available slots at the moment. Would you like to choose a different doctor?",
			sess.Doctor,
		)
	}

	sess.SlotMenu = slots
	sess.State = StateScheduling

	var b strings.Builder
	b.WriteString("Available appointment slots:\n\n")

	lastDate := ""
	for i, slot := range slots {
		if slot.Date != lastDate {
			if lastDate != "" {
				b.WriteString("\n")
			}
			b.WriteString(prettyDate(slot.Date) + ":\n")
			lastDate = slot.Date
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, slot.Time)
	}

	kind := "returning"
	if sess.Patient.Type == patient.TypeNew {
		kind = "new"
	}
	fmt.Fprintf(&b, "\nSince you're a %s patient, your appointment will be %d minutes long.\n", kind, sess.Duration)
	b.WriteString("Please choose a slot by saying the number (e.g., '1', '15', '25').")
	return b.String()
}

func (e *Engine) handleScheduling(sess *Session, input string) string {
	n, ok := firstNumber(input)
	if !ok {
		return "I didn't catch which slot you'd like. Please tell me the number of your preferred slot."
	}
	if n < 1 || n > len(sess.SlotMenu) {
		return fmt.Sprintf("Please choose a number between 1 and %d.", len(sess.SlotMenu))
	}

	selected := sess.SlotMenu[n-1]
	if err := e.schedule.Book(selected.Doctor, selected.Date, selected.Time, sess.Duration); err != nil {
		e.logger.Warn("slot booking rejected",
			"session_id", sess.ID,
			"doctor", selected.Doctor,
			"date", selected.Date,
			"time", selected.Time,
			"error", err,
		)
		switch {
		case errors.Is(err, schedule.ErrNoConsecutiveSlot):
			return fmt.Sprintf(
				"That time can't fit your %d-minute appointment. %s",
				sess.Duration, e.showAvailableSlots(sess),
			)
		case errors.Is(err, schedule.ErrSlotUnavailable), errors.Is(err, schedule.ErrSlotNotFound):
			return "I'm sorry, that slot was just taken. " + e.showAvailableSlots(sess)
		default:
			return "I'm having trouble booking that slot right now. Could you try again?"
		}
	}

	sess.Date = selected.Date
	sess.Time = selected.Time
	sess.SlotMenu = nil
	sess.State = StateInsuranceCollection

	return fmt.Sprintf(
		"Great! I've selected %s at %s for your %d-minute appointment with %s.\n\n"+
			"What's your insurance carrier? (If you don't have insurance, just say 'no insurance' or 'self pay')",
		selected.Date, selected.Time, sess.Duration, sess.Doctor,
	)
}

// firstNumber picks the first integer token out of free-form text.
func firstNumber(input string) (int, bool) {
	for _, field := range strings.Fields(input) {
		trimmed := strings.Trim(field, ".,!?:;()'\"")
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, true
		}
	}
	return 0, false
}

func prettyDate(date string) string {
	t, err := time.Parse(schedule.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
