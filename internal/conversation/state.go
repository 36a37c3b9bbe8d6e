package conversation

// State tracks where a booking conversation is in its flow. Each inbound
// message is routed by the session's current state.
type State string

const (
	StateGreeting               State = "greeting"
	StateCollectingInfo         State = "collecting_info"
	StatePatientLookup          State = "patient_lookup"
	StateNewPatientRegistration State = "new_patient_registration"
	StateDoctorSelection        State = "doctor_selection"
	StateScheduling             State = "scheduling"
	StateInsuranceCollection    State = "insurance_collection"
	StateConfirmation           State = "confirmation"
	StateCompleted              State = "completed"
)

// Terminal reports whether the conversation has finished its booking flow.
func (s State) Terminal() bool {
	return s == StateCompleted
}
