package conversation

import (
	"fmt"
	"strings"

	"github.com/clinicdesk/scheduling-assistant/internal/fuzzy"
	"github.com/clinicdesk/scheduling-assistant/internal/patient"
)

// matchDoctorThreshold is the minimum fuzzy score to accept a doctor pick.
const matchDoctorThreshold = 60

func (e *Engine) handleDoctorSelection(sess *Session, input string) string {
	doctors := e.schedule.Doctors()
	if len(doctors) == 0 {
		return "I'm sorry, we don't have any doctor schedules loaded right now. Please try again later."
	}

	doctor, ok := matchDoctor(input, doctors)
	if !ok {
		return fmt.Sprintf(
			"I didn't catch which doctor you'd like to see. Available doctors are: %s. Which one would you prefer?",
			strings.Join(doctors, ", "),
		)
	}

	sess.Doctor = doctor
	if sess.Patient.Type == patient.TypeNew {
		sess.Duration = e.newPatientMinutes
	} else {
		sess.Duration = e.returningPatientMinutes
	}
	return e.showAvailableSlots(sess)
}

// matchDoctor resolves free-form input like "harris", "Dr Kevin" or a full
// name against the schedule's doctor list. Exact match wins; otherwise the
// best fuzzy score above the threshold, with boosts for substring and
// individual name-part matches.
func matchDoctor(input string, doctors []string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	for _, prefix := range []string{"doctor", "dr.", "dr"} {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
		}
	}

	for _, doctor := range doctors {
		if strings.EqualFold(doctor, input) {
			return doctor, true
		}
	}

	bestScore := 0
	best := ""
	for _, doctor := range doctors {
		lower := strings.ToLower(doctor)
		score := fuzzy.Ratio(cleaned, lower)

		if cleaned != "" && (strings.Contains(lower, cleaned) || strings.Contains(cleaned, lower)) {
			if score < 80 {
				score = 80
			}
		}

		parts := strings.Fields(strings.TrimSpace(strings.ReplaceAll(lower, "dr.", "")))
		for _, part := range parts {
			if len(part) <= 2 {
				continue
			}
			if partScore := fuzzy.Ratio(cleaned, part); partScore > 70 && partScore > score {
				score = partScore
			}
		}
		if len(parts) >= 2 {
			if cleaned == parts[0] || cleaned == parts[len(parts)-1] {
				if score < 90 {
					score = 90
				}
			}
		}

		if score > bestScore && score > matchDoctorThreshold {
			bestScore = score
			best = doctor
		}
	}
	return best, best != ""
}
